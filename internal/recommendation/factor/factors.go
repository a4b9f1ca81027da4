package factor

import (
	"time"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// priorityScores maps a task priority to its base relevance.
var priorityScores = map[string]float64{
	domain.PriorityCritical: 1.0,
	domain.PriorityHigh:     0.8,
	domain.PriorityMedium:   0.6,
	domain.PriorityNormal:   0.4,
	domain.PriorityLow:      0.2,
}

// Priority scores tasks by their assigned priority level.
type Priority struct{}

// NewPriority creates a priority factor.
func NewPriority() *Priority { return &Priority{} }

func (f *Priority) Name() string { return NamePriority }

func (f *Priority) Score(task *domain.TaskRecord, _ *Context) (float64, error) {
	if score, ok := priorityScores[task.NormalizedPriority()]; ok {
		return score, nil
	}
	return 0.4, nil
}

// Deadline scores tasks by due-date proximity: overdue tasks score 1.0
// and the score ramps linearly down to 0.2 across the urgency window.
type Deadline struct {
	// UrgencyThresholdDays is the window over which urgency decays.
	UrgencyThresholdDays int

	now func() time.Time
}

// NewDeadline creates a deadline factor with the given urgency window;
// values below 1 fall back to the default of 7 days.
func NewDeadline(urgencyThresholdDays int) *Deadline {
	if urgencyThresholdDays < 1 {
		urgencyThresholdDays = 7
	}
	return &Deadline{UrgencyThresholdDays: urgencyThresholdDays, now: time.Now}
}

func (f *Deadline) Name() string { return NameDeadline }

func (f *Deadline) Score(task *domain.TaskRecord, _ *Context) (float64, error) {
	if task.DueDate == nil {
		return 0.5, nil
	}

	now := f.now()
	if task.DueDate.Before(now) {
		return 1.0, nil
	}

	threshold := float64(f.UrgencyThresholdDays)
	daysUntilDue := task.DueDate.Sub(now).Hours() / 24
	if daysUntilDue >= threshold {
		return 0.2, nil
	}

	return 1.0 - (daysUntilDue/threshold)*0.8, nil
}

// Dependency scores tasks by how many of their dependencies are already
// completed: no dependencies means fully ready.
type Dependency struct{}

// NewDependency creates a dependency readiness factor.
func NewDependency() *Dependency { return &Dependency{} }

func (f *Dependency) Name() string { return NameDependency }

func (f *Dependency) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	if len(task.Dependencies) == 0 {
		return 1.0, nil
	}

	completed := 0
	for _, depID := range task.Dependencies {
		if dep, ok := fctx.AllTasks[depID]; ok && dep != nil && dep.IsCompleted() {
			completed++
		}
	}

	return float64(completed) / float64(len(task.Dependencies)), nil
}

// Preference scores tasks by how well they match the user's stored tag,
// category, and priority preferences.
type Preference struct{}

// NewPreference creates a preference-match factor.
func NewPreference() *Preference { return &Preference{} }

func (f *Preference) Name() string { return NamePreference }

func (f *Preference) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	if len(fctx.Preferences) == 0 {
		return 0.5, nil
	}

	score := 0.5
	for _, pref := range fctx.Preferences {
		value, ok := pref.StringValue()
		if !ok {
			continue
		}

		matched := false
		switch pref.Type {
		case domain.PreferenceTag:
			matched = task.HasTag(value)
		case domain.PreferenceCategory:
			matched = task.Category != "" && value == task.Category
		case domain.PreferencePriority:
			matched = task.Priority != "" && value == task.Priority
		}

		if matched {
			score += 0.5 * pref.Weight
		}
	}

	return clamp01(score), nil
}

// CompletionTime scores tasks by estimated duration, normalized against
// the current candidate set. With PreferShorter set, shorter tasks score
// higher.
type CompletionTime struct {
	PreferShorter bool
}

// NewCompletionTime creates a duration-preference factor.
func NewCompletionTime(preferShorter bool) *CompletionTime {
	return &CompletionTime{PreferShorter: preferShorter}
}

func (f *CompletionTime) Name() string { return NameCompletionTime }

func (f *CompletionTime) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	if !task.HasEstimate() || len(fctx.AllTasks) == 0 {
		return 0.5, nil
	}

	minTime, maxTime := 0, 0
	seen := false
	for _, other := range fctx.AllTasks {
		if other == nil || !other.HasEstimate() {
			continue
		}
		if !seen {
			minTime, maxTime = other.EstimatedTime, other.EstimatedTime
			seen = true
			continue
		}
		if other.EstimatedTime < minTime {
			minTime = other.EstimatedTime
		}
		if other.EstimatedTime > maxTime {
			maxTime = other.EstimatedTime
		}
	}

	if !seen || minTime == maxTime {
		return 0.5, nil
	}

	normalized := float64(task.EstimatedTime-minTime) / float64(maxTime-minTime)
	if f.PreferShorter {
		normalized = 1.0 - normalized
	}
	return clamp01(normalized), nil
}

// HistoricalSuccess scores tasks by the user's past success with the
// same category and type, averaged.
type HistoricalSuccess struct{}

// NewHistoricalSuccess creates a historical-success factor.
func NewHistoricalSuccess() *HistoricalSuccess { return &HistoricalSuccess{} }

func (f *HistoricalSuccess) Name() string { return NameHistoricalSuccess }

func (f *HistoricalSuccess) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	if len(fctx.CategorySuccess) == 0 && len(fctx.TypeSuccess) == 0 {
		return 0.5, nil
	}

	categorySuccess := 0.5
	if task.Category != "" {
		if ratio, ok := fctx.CategorySuccess[task.Category]; ok {
			categorySuccess = ratio
		}
	}

	typeSuccess := 0.5
	if task.Type != "" {
		if ratio, ok := fctx.TypeSuccess[task.Type]; ok {
			typeSuccess = ratio
		}
	}

	return (categorySuccess + typeSuccess) / 2, nil
}

// Workload scores tasks by whether selecting them would even out the
// current workload distribution: under-represented categories and
// priorities score higher.
type Workload struct{}

// NewWorkload creates a workload-balance factor.
func NewWorkload() *Workload { return &Workload{} }

func (f *Workload) Name() string { return NameWorkload }

func (f *Workload) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	if fctx.Metrics == nil {
		return 0.5, nil
	}

	categoryScore := 0.5
	if task.Category != "" && len(fctx.Metrics.CategoryBalance) > 0 {
		categoryScore = balanceScore(fctx.Metrics.CategoryBalance, task.Category)
	}

	priorityScore := 0.5
	if len(fctx.Metrics.PriorityBalance) > 0 {
		priorityScore = balanceScore(fctx.Metrics.PriorityBalance, task.NormalizedPriority())
	}

	return (categoryScore + priorityScore) / 2, nil
}

// balanceScore rewards under-represented buckets (ratio < 0.3) and
// penalizes over-represented ones (ratio > 0.7).
func balanceScore(balance map[string]float64, key string) float64 {
	ratio, ok := balance[key]
	if !ok {
		ratio = 0.5
	}
	switch {
	case ratio < 0.3:
		return 0.8
	case ratio > 0.7:
		return 0.2
	default:
		return 0.5
	}
}
