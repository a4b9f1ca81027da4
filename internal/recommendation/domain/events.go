package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoutingKeyCompletionRecorded is the routing key for completion events.
const RoutingKeyCompletionRecorded = "recommendation.completion.recorded"

// CompletionRecorded is published after a task completion has been added
// to a user's performance history.
type CompletionRecorded struct {
	EventID           uuid.UUID `json:"event_id"`
	UserID            string    `json:"user_id"`
	TaskID            string    `json:"task_id"`
	CompletionMinutes int       `json:"completion_minutes"`
	EstimatedMinutes  int       `json:"estimated_minutes"`
	Accuracy          float64   `json:"accuracy"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewCompletionRecorded creates the event for a freshly appended record.
func NewCompletionRecorded(userID string, record PerformanceRecord) CompletionRecorded {
	return CompletionRecorded{
		EventID:           uuid.New(),
		UserID:            userID,
		TaskID:            record.TaskID,
		CompletionMinutes: record.CompletionMinutes,
		EstimatedMinutes:  record.EstimatedMinutes,
		Accuracy:          record.Accuracy,
		OccurredAt:        record.CompletedAt,
	}
}

// RoutingKey returns the event's routing key.
func (e CompletionRecorded) RoutingKey() string {
	return RoutingKeyCompletionRecorded
}
