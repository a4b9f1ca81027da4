package domain

import (
	"math"
	"time"
)

// PerformanceRecord captures one completed task outcome. Records are
// append-only: once written they are never mutated.
type PerformanceRecord struct {
	TaskID            string    `json:"task_id"`
	CompletedAt       time.Time `json:"completed_at"`
	Category          string    `json:"category,omitempty"`
	Type              string    `json:"type,omitempty"`
	Priority          string    `json:"priority"`
	Tags              []string  `json:"tags,omitempty"`
	CompletionMinutes int       `json:"completion_time"`
	EstimatedMinutes  int       `json:"estimated_time"`
	Accuracy          float64   `json:"accuracy"`
}

// EstimationAccuracy scores how close an actual completion time came to
// its estimate on a 0-100 scale. An unknown or zero estimate yields 0.
func EstimationAccuracy(estimatedMinutes, actualMinutes int) float64 {
	if estimatedMinutes <= 0 {
		return 0
	}
	deviation := math.Abs(float64(actualMinutes-estimatedMinutes)) / float64(estimatedMinutes) * 100
	accuracy := 100 - math.Min(100, deviation)
	return math.Max(0, accuracy)
}
