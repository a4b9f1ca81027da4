package domain

import "time"

// WorkloadSettings holds a user's capacity configuration. One record per
// user; created on first set, overwritten thereafter, read-defaulted when
// absent.
type WorkloadSettings struct {
	UserID               string             `json:"user_id"`
	DailyCapacityMinutes int                `json:"daily_capacity_minutes"`
	MaxConcurrentTasks   int                `json:"max_concurrent_tasks"`
	PreferredTaskSize    string             `json:"preferred_task_size"`
	CategoryLimits       map[string]int     `json:"category_limits"`
	PriorityWeights      map[string]float64 `json:"priority_weights"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// DefaultWorkloadSettings returns the baseline capacity configuration:
// an eight-hour day, five concurrent tasks, medium-sized tasks preferred.
func DefaultWorkloadSettings(userID string) WorkloadSettings {
	return WorkloadSettings{
		UserID:               userID,
		DailyCapacityMinutes: 480,
		MaxConcurrentTasks:   5,
		PreferredTaskSize:    SizeMedium,
		CategoryLimits:       map[string]int{},
		PriorityWeights:      DefaultPriorityWeights(),
	}
}

// DefaultPriorityWeights returns the selection-score multipliers applied
// per priority during workload balancing.
func DefaultPriorityWeights() map[string]float64 {
	return map[string]float64{
		PriorityCritical: 2.0,
		PriorityHigh:     1.5,
		PriorityMedium:   1.0,
		PriorityNormal:   0.8,
		PriorityLow:      0.5,
	}
}

// WorkloadMetrics describes how a candidate set distributes over
// categories, priorities, and size buckets, and how much of the user's
// daily capacity it would consume.
type WorkloadMetrics struct {
	UserID                string             `json:"user_id"`
	TotalTasks            int                `json:"total_tasks"`
	TotalEstimatedMinutes int                `json:"total_estimated_minutes"`
	WorkloadPercentage    float64            `json:"workload_percentage"`
	CategoryBalance       map[string]float64 `json:"category_balance"`
	PriorityBalance       map[string]float64 `json:"priority_balance"`
	SizeBalance           map[string]float64 `json:"size_balance"`
}
