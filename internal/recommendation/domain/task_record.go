// Package domain contains the core types of the recommendation bounded
// context: task records consumed from external task storage, user
// preferences, performance history, workload settings, and the store and
// collaborator interfaces the application layer depends on.
package domain

import (
	"strings"
	"time"
)

// Task status values as supplied by the external task provider.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Priority levels recognized by the recommendation core. Unknown values
// degrade to PriorityNormal wherever a priority is consumed.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityNormal   = "normal"
	PriorityLow      = "low"
)

// Task size buckets derived from estimated or actual minutes.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// TaskRecord is a read-only view of a task supplied by an external
// collaborator. Only ID is guaranteed to be present; every other field is
// optional and accessors fall back to neutral defaults.
type TaskRecord struct {
	ID            string     `json:"id"`
	Title         string     `json:"title,omitempty"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	Category      string     `json:"category,omitempty"`
	Type          string     `json:"type,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	EstimatedTime int        `json:"estimated_time,omitempty"` // minutes
	DueDate       *time.Time `json:"due_date,omitempty"`
	Dependencies  []string   `json:"dependencies,omitempty"`
	Assignees     []string   `json:"assignees,omitempty"`
	Reviewers     []string   `json:"reviewers,omitempty"`
	Owner         string     `json:"owner,omitempty"`
}

// NormalizedPriority returns the lowercased priority, defaulting to
// "normal" when absent.
func (t *TaskRecord) NormalizedPriority() string {
	if t.Priority == "" {
		return PriorityNormal
	}
	return strings.ToLower(t.Priority)
}

// IsCompleted reports whether the task status is "completed".
func (t *TaskRecord) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasEstimate reports whether the task carries a usable time estimate.
func (t *TaskRecord) HasEstimate() bool {
	return t.EstimatedTime > 0
}

// HasTag reports whether the task carries the given tag.
func (t *TaskRecord) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// SizeBucket classifies a duration in minutes into small/medium/large.
// Small is under 30 minutes, medium under 2 hours, large anything above.
func SizeBucket(minutes int) string {
	switch {
	case minutes < 30:
		return SizeSmall
	case minutes < 120:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// TimeOfDay buckets an instant into morning/afternoon/evening/night.
// Morning is 05:00-12:00, afternoon 12:00-17:00, evening 17:00-22:00.
func TimeOfDay(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}
