package factor

import (
	"strings"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// ContextAwareness scores tasks by how closely they relate to the user's
// current working context: open files, working directory, and recent
// commands. The final score is the average of the non-zero signals, or
// 0.5 when no signal fires.
type ContextAwareness struct {
	matcher *ContextMatcher
}

// NewContextAwareness creates a context-awareness factor.
func NewContextAwareness() *ContextAwareness {
	return &ContextAwareness{matcher: NewContextMatcher()}
}

func (f *ContextAwareness) Name() string { return NameContextAwareness }

func (f *ContextAwareness) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	taskFiles := f.matcher.TaskFiles(task.Description)
	signals := []float64{
		f.matcher.FileScore(taskFiles, fctx.CurrentFiles),
		f.matcher.DirectoryScore(task.Category, fctx.CurrentDirectory),
		f.matcher.CommandScore(f.matcher.TaskKeywords(task), fctx.RecentCommands),
	}

	sum, count := 0.0, 0
	for _, signal := range signals {
		if signal > 0 {
			sum += signal
			count++
		}
	}
	if count == 0 {
		return 0.5, nil
	}
	return sum / float64(count), nil
}

// Collaboration scores tasks by how well their assignment shape matches
// the user's preferred collaboration mode (solo, team, review, lead).
type Collaboration struct{}

// NewCollaboration creates a collaboration-fit factor.
func NewCollaboration() *Collaboration { return &Collaboration{} }

func (f *Collaboration) Name() string { return NameCollaboration }

func (f *Collaboration) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	pref, ok := fctx.Preference(domain.PreferenceCollaboration)
	if !ok {
		return 0.5, nil
	}
	mode, ok := pref.StringValue()
	if !ok {
		return 0.5, nil
	}

	switch mode {
	case "solo":
		if len(task.Assignees) == 0 || (len(task.Assignees) == 1 && task.Assignees[0] == fctx.UserID) {
			return 0.9, nil
		}
		return 0.3, nil
	case "team":
		if len(task.Assignees) > 1 {
			return 0.9, nil
		}
		return 0.4, nil
	case "review":
		for _, reviewer := range task.Reviewers {
			if reviewer == fctx.UserID {
				return 0.9, nil
			}
		}
		return 0.5, nil
	case "lead":
		if task.Owner != "" && task.Owner == fctx.UserID {
			return 0.9, nil
		}
		return 0.4, nil
	default:
		return 0.5, nil
	}
}

// Learning scores tasks by the fraction of the user's learning interests
// they touch: an exact tag/category/type match counts fully, a substring
// match in the description counts half.
type Learning struct{}

// NewLearning creates a learning-opportunity factor.
func NewLearning() *Learning { return &Learning{} }

func (f *Learning) Name() string { return NameLearning }

func (f *Learning) Score(task *domain.TaskRecord, fctx *Context) (float64, error) {
	pref, ok := fctx.Preference(domain.PreferenceLearning)
	if !ok {
		return 0.5, nil
	}
	interests := pref.StringSliceValue()
	if len(interests) == 0 {
		return 0.5, nil
	}

	description := strings.ToLower(task.Description)
	matches := 0.0
	for _, interest := range interests {
		switch {
		case task.HasTag(interest):
			matches++
		case strings.EqualFold(interest, task.Category) && task.Category != "":
			matches++
		case strings.EqualFold(interest, task.Type) && task.Type != "":
			matches++
		case strings.Contains(description, strings.ToLower(interest)):
			matches += 0.5
		}
	}

	return clamp01(matches / float64(len(interests))), nil
}
