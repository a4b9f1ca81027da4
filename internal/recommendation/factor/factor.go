// Package factor implements the pluggable scoring strategies of the
// recommendation engine. Every factor maps a task plus shared context to
// a score in [0,1]; the engine combines factor scores into a weighted
// composite and isolates factor failures so a single misbehaving factor
// never aborts the pipeline.
package factor

import (
	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// Context carries the shared state assembled by the engine before a
// scoring pass: the candidate task index, the user's stored preferences,
// derived historical success ratios, workload distribution metrics, and
// the user's current working context. Any field may be zero; factors
// degrade to neutral defaults.
type Context struct {
	UserID string

	// AllTasks indexes every candidate (and dependency-resolved) task
	// by id for dependency readiness checks and duration normalization.
	AllTasks map[string]*domain.TaskRecord

	// Preferences are the user's stored preferences.
	Preferences []domain.UserPreference

	// CategorySuccess and TypeSuccess map category/type to a historical
	// success ratio in [0,1], derived from estimation accuracy.
	CategorySuccess map[string]float64
	TypeSuccess     map[string]float64

	// Metrics describes the current workload distribution.
	Metrics *domain.WorkloadMetrics

	// Working context signals for context-aware scoring.
	CurrentFiles     []string
	CurrentDirectory string
	RecentCommands   []string
}

// Preference returns the stored preference of the given type, if any.
func (c *Context) Preference(ptype domain.PreferenceType) (domain.UserPreference, bool) {
	for _, pref := range c.Preferences {
		if pref.Type == ptype {
			return pref, true
		}
	}
	return domain.UserPreference{}, false
}

// Factor is a single scoring strategy. Score must return a value in
// [0,1]; returning an error (or panicking) causes the engine to record a
// zero contribution for this factor and continue.
type Factor interface {
	Name() string
	Score(task *domain.TaskRecord, fctx *Context) (float64, error)
}

// Factor names, used for weight overrides and explanations.
const (
	NamePriority          = "priority"
	NameDeadline          = "deadline"
	NameDependency        = "dependency"
	NamePreference        = "preference"
	NameCompletionTime    = "completion_time"
	NameHistoricalSuccess = "historical_success"
	NameWorkload          = "workload"
	NameContextAwareness  = "context_awareness"
	NameCollaboration     = "collaboration"
	NameLearning          = "learning"
)

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
