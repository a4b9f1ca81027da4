package domain

import "time"

// TaskScore is the result of scoring one task: the weighted composite and
// the per-factor breakdown. Scores are ephemeral and never persisted.
type TaskScore struct {
	TaskID       string             `json:"task_id"`
	OverallScore float64            `json:"overall_score"`
	FactorScores map[string]float64 `json:"factor_scores"`
	Timestamp    time.Time          `json:"timestamp"`
}
