package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

const (
	// defaultTaskMinutes is assumed for tasks with no estimate and no
	// usable prediction.
	defaultTaskMinutes = 60

	minutesPerDay = 24 * 60
)

// Balancer selects a capacity-respecting subset of candidate tasks using
// per-user workload settings: daily capacity, concurrency cap, category
// limits, and priority weights.
type Balancer struct {
	store    domain.DocumentStore
	analyzer *Analyzer
	logger   *slog.Logger
	mu       sync.Mutex
	now      func() time.Time
}

// NewBalancer creates a balancer. The analyzer is optional; with one
// attached, task durations come from completion-time predictions instead
// of raw estimates.
func NewBalancer(store domain.DocumentStore, analyzer *Analyzer, logger *slog.Logger) *Balancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Balancer{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// SetUserSettings stores the user's workload settings, filling missing
// fields with defaults. One record per user, overwritten on every set.
func (b *Balancer) SetUserSettings(ctx context.Context, settings domain.WorkloadSettings) (domain.WorkloadSettings, error) {
	if settings.UserID == "" {
		return domain.WorkloadSettings{}, errors.New("user id is required")
	}

	defaults := domain.DefaultWorkloadSettings(settings.UserID)
	if settings.DailyCapacityMinutes <= 0 {
		settings.DailyCapacityMinutes = defaults.DailyCapacityMinutes
	}
	if settings.MaxConcurrentTasks <= 0 {
		settings.MaxConcurrentTasks = defaults.MaxConcurrentTasks
	}
	if settings.PreferredTaskSize == "" {
		settings.PreferredTaskSize = defaults.PreferredTaskSize
	}
	if settings.CategoryLimits == nil {
		settings.CategoryLimits = map[string]int{}
	}
	if settings.PriorityWeights == nil {
		settings.PriorityWeights = domain.DefaultPriorityWeights()
	}
	settings.UpdatedAt = b.now().UTC()

	doc, err := json.Marshal(settings)
	if err != nil {
		return domain.WorkloadSettings{}, fmt.Errorf("encode workload settings: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.store.Put(ctx, domain.CollectionWorkload, settings.UserID, doc); err != nil {
		return domain.WorkloadSettings{}, fmt.Errorf("save workload settings: %w", err)
	}

	b.logger.Debug("workload settings saved",
		"user_id", settings.UserID,
		"daily_capacity_minutes", settings.DailyCapacityMinutes,
		"max_concurrent_tasks", settings.MaxConcurrentTasks,
	)

	return settings, nil
}

// UserSettings returns the user's workload settings, or the defaults
// when none are stored.
func (b *Balancer) UserSettings(ctx context.Context, userID string) (domain.WorkloadSettings, error) {
	doc, err := b.store.Get(ctx, domain.CollectionWorkload, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultWorkloadSettings(userID), nil
	}
	if err != nil {
		return domain.WorkloadSettings{}, fmt.Errorf("load workload settings: %w", err)
	}

	var settings domain.WorkloadSettings
	if err := json.Unmarshal(doc, &settings); err != nil {
		return domain.WorkloadSettings{}, fmt.Errorf("decode workload settings for user %s: %w", userID, err)
	}
	if settings.PriorityWeights == nil {
		settings.PriorityWeights = domain.DefaultPriorityWeights()
	}
	if settings.CategoryLimits == nil {
		settings.CategoryLimits = map[string]int{}
	}
	return settings, nil
}

// BalanceWorkload selects tasks for the given period greedily: tasks are
// ranked by priority weight (with a bonus for the preferred size) and
// admitted first-fit until capacity, category limits, or the concurrency
// cap stop the scan. A task that does not fit is skipped, not a stopping
// point, so a later smaller task can still be admitted.
func (b *Balancer) BalanceWorkload(ctx context.Context, userID string, tasks []domain.TaskRecord, period time.Duration) ([]domain.TaskRecord, error) {
	if len(tasks) == 0 {
		return []domain.TaskRecord{}, nil
	}

	settings, err := b.UserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if period <= 0 {
		period = 24 * time.Hour
	}
	capacityMinutes := float64(settings.DailyCapacityMinutes) * (period.Minutes() / minutesPerDay)

	type candidate struct {
		task             domain.TaskRecord
		score            float64
		estimatedMinutes int
	}

	candidates := make([]candidate, 0, len(tasks))
	for _, task := range tasks {
		estimated := b.estimateMinutes(ctx, userID, task)

		weight, ok := settings.PriorityWeights[task.NormalizedPriority()]
		if !ok {
			weight = 1.0
		}
		score := weight
		if domain.SizeBucket(estimated) == settings.PreferredTaskSize {
			score *= 1.2
		}

		candidates = append(candidates, candidate{task: task, score: score, estimatedMinutes: estimated})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	balanced := make([]domain.TaskRecord, 0, settings.MaxConcurrentTasks)
	allocatedMinutes := 0.0
	categoryCounts := map[string]int{}

	for _, c := range candidates {
		if allocatedMinutes+float64(c.estimatedMinutes) > capacityMinutes {
			continue
		}
		if c.task.Category != "" {
			if limit, limited := settings.CategoryLimits[c.task.Category]; limited && categoryCounts[c.task.Category] >= limit {
				continue
			}
		}

		balanced = append(balanced, c.task)
		allocatedMinutes += float64(c.estimatedMinutes)
		categoryCounts[c.task.Category]++

		if len(balanced) >= settings.MaxConcurrentTasks {
			break
		}
	}

	b.logger.Debug("workload balanced",
		"user_id", userID,
		"candidates", len(tasks),
		"selected", len(balanced),
		"allocated_minutes", allocatedMinutes,
		"capacity_minutes", capacityMinutes,
	)

	return balanced, nil
}

// OptimalTaskCount estimates how many tasks fit in the period, dividing
// capacity by the user's historical average task duration (one hour when
// no history exists), capped at the concurrency limit.
func (b *Balancer) OptimalTaskCount(ctx context.Context, userID string, period time.Duration) (int, error) {
	settings, err := b.UserSettings(ctx, userID)
	if err != nil {
		return 0, err
	}

	if period <= 0 {
		period = 24 * time.Hour
	}
	capacityMinutes := float64(settings.DailyCapacityMinutes) * (period.Minutes() / minutesPerDay)

	avgMinutes := float64(defaultTaskMinutes)
	if b.analyzer != nil {
		summary, err := b.analyzer.AnalyzeUserPerformance(ctx, userID, nil, nil)
		if err != nil {
			return 0, err
		}
		totalDuration, totalCount := 0.0, 0
		for _, stats := range summary.ByCategory {
			if stats.AverageCompletionTime > 0 && stats.Count > 0 {
				totalDuration += stats.AverageCompletionTime * float64(stats.Count)
				totalCount += stats.Count
			}
		}
		if totalCount > 0 {
			avgMinutes = totalDuration / float64(totalCount)
		}
	}

	optimal := int(capacityMinutes / avgMinutes)
	if optimal > settings.MaxConcurrentTasks {
		optimal = settings.MaxConcurrentTasks
	}
	return optimal, nil
}

// Metrics describes how the candidate set distributes over categories,
// priorities, and sizes, and the share of daily capacity it consumes.
func (b *Balancer) Metrics(ctx context.Context, userID string, tasks []domain.TaskRecord) (*domain.WorkloadMetrics, error) {
	metrics := &domain.WorkloadMetrics{
		UserID:          userID,
		CategoryBalance: map[string]float64{},
		PriorityBalance: map[string]float64{},
		SizeBalance:     map[string]float64{},
	}
	if len(tasks) == 0 {
		return metrics, nil
	}

	settings, err := b.UserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	categoryCounts := map[string]int{}
	priorityCounts := map[string]int{}
	sizeCounts := map[string]int{}

	for _, task := range tasks {
		estimated := b.estimateMinutes(ctx, userID, task)
		metrics.TotalEstimatedMinutes += estimated

		if task.Category != "" {
			categoryCounts[task.Category]++
		}
		priorityCounts[task.NormalizedPriority()]++
		sizeCounts[domain.SizeBucket(estimated)]++
	}

	metrics.TotalTasks = len(tasks)
	total := float64(len(tasks))
	for category, count := range categoryCounts {
		metrics.CategoryBalance[category] = float64(count) / total
	}
	for priority, count := range priorityCounts {
		metrics.PriorityBalance[priority] = float64(count) / total
	}
	for size, count := range sizeCounts {
		metrics.SizeBalance[size] = float64(count) / total
	}

	if settings.DailyCapacityMinutes > 0 {
		metrics.WorkloadPercentage = float64(metrics.TotalEstimatedMinutes) / float64(settings.DailyCapacityMinutes) * 100
	}

	return metrics, nil
}

// estimateMinutes resolves a task's duration: a positive prediction when
// the analyzer is attached, then the task's own estimate, then the
// one-hour default.
func (b *Balancer) estimateMinutes(ctx context.Context, userID string, task domain.TaskRecord) int {
	if b.analyzer != nil {
		prediction, err := b.analyzer.PredictCompletionTime(ctx, userID, task)
		if err != nil {
			b.logger.Warn("completion time prediction failed",
				"task_id", task.ID,
				"user_id", userID,
				"error", err,
			)
		} else if prediction.PredictedMinutes > 0 {
			return prediction.PredictedMinutes
		}
	}
	if task.HasEstimate() {
		return task.EstimatedTime
	}
	return defaultTaskMinutes
}
