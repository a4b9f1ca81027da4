package domain

import "time"

// PreferenceType identifies what aspect of task selection a preference
// influences. Setting a preference of an existing type overwrites it.
type PreferenceType string

const (
	PreferenceTag           PreferenceType = "tag_preference"
	PreferenceCategory      PreferenceType = "category_preference"
	PreferencePriority      PreferenceType = "priority_preference"
	PreferenceTimeOfDay     PreferenceType = "time_of_day_preference"
	PreferenceDuration      PreferenceType = "duration_preference"
	PreferenceComplexity    PreferenceType = "complexity_preference"
	PreferenceTaskType      PreferenceType = "task_type_preference"
	PreferenceCollaboration PreferenceType = "preferred_collaboration"
	PreferenceLearning      PreferenceType = "learning_interests"
	PreferenceCustom        PreferenceType = "custom_preference"
)

// UserPreference is a weighted, typed preference record. Value is opaque:
// a scalar, a list, or a structured document, depending on the type.
type UserPreference struct {
	UserID    string         `json:"user_id"`
	Type      PreferenceType `json:"preference_type"`
	Value     any            `json:"preference_value"`
	Weight    float64        `json:"weight"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewUserPreference creates a preference with the default weight of 1.0
// when weight is not positive.
func NewUserPreference(userID string, ptype PreferenceType, value any, weight float64) UserPreference {
	if weight <= 0 {
		weight = 1.0
	}
	now := time.Now().UTC()
	return UserPreference{
		UserID:    userID,
		Type:      ptype,
		Value:     value,
		Weight:    weight,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StringValue returns the preference value as a string when it is one.
func (p UserPreference) StringValue() (string, bool) {
	s, ok := p.Value.(string)
	return s, ok
}

// StringSliceValue returns the preference value as a string slice. JSON
// round-trips turn lists into []any, so both representations are accepted.
func (p UserPreference) StringSliceValue() []string {
	switch v := p.Value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
