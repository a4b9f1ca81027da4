package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
	"github.com/felixgeelhaar/tascade/internal/shared/infrastructure/eventbus"
)

// AttributeStats aggregates completions sharing one attribute value.
type AttributeStats struct {
	Count                 int     `json:"count"`
	AverageAccuracy       float64 `json:"average_accuracy"`
	AverageCompletionTime float64 `json:"average_completion_time"`
}

// PerformanceSummary is the result of analyzing a user's completion
// history, grouped by category, type, priority, tag, and time of day.
type PerformanceSummary struct {
	UserID          string                    `json:"user_id"`
	TaskCount       int                       `json:"task_count"`
	AverageAccuracy float64                   `json:"average_accuracy"`
	ByCategory      map[string]AttributeStats `json:"category_performance"`
	ByType          map[string]AttributeStats `json:"type_performance"`
	ByPriority      map[string]AttributeStats `json:"priority_performance"`
	ByTag           map[string]AttributeStats `json:"tag_performance"`
	ByTimeOfDay     map[string]AttributeStats `json:"time_of_day_performance"`
}

// SuccessRatios derives per-category and per-type success ratios in
// [0,1] from average estimation accuracy.
func (s *PerformanceSummary) SuccessRatios() (category, taskType map[string]float64) {
	category = make(map[string]float64, len(s.ByCategory))
	for name, stats := range s.ByCategory {
		category[name] = stats.AverageAccuracy / 100
	}
	taskType = make(map[string]float64, len(s.ByType))
	for name, stats := range s.ByType {
		taskType[name] = stats.AverageAccuracy / 100
	}
	return category, taskType
}

// DistributionPattern describes how completions distribute over a set of
// buckets, with buckets ordered most-frequent first.
type DistributionPattern struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	Preferred   []string           `json:"preferred"`
}

// TaskSizePattern describes completion volume and accuracy per task size
// bucket, with sizes ordered by accuracy.
type TaskSizePattern struct {
	Counts            map[string]int     `json:"counts"`
	Percentages       map[string]float64 `json:"percentages"`
	AverageAccuracies map[string]float64 `json:"average_accuracies"`
	Preferred         []string           `json:"preferred_sizes"`
}

// SequentialPattern counts type-to-type transitions between consecutive
// completions.
type SequentialPattern struct {
	Transitions map[string]map[string]int `json:"transitions"`
}

// CompletionPatterns bundles the behavioral patterns mined from a user's
// completion history.
type CompletionPatterns struct {
	UserID     string              `json:"user_id"`
	TaskCount  int                 `json:"task_count"`
	DayOfWeek  DistributionPattern `json:"day_of_week"`
	TimeOfDay  DistributionPattern `json:"time_of_day"`
	TaskSize   TaskSizePattern     `json:"task_size"`
	Sequential SequentialPattern   `json:"sequential_tasks"`
}

// Prediction is a completion-time estimate for one task. Basis names the
// evidence: "task_estimate", "historical", or "historical_and_task_estimate".
type Prediction struct {
	TaskID           string  `json:"task_id"`
	UserID           string  `json:"user_id"`
	PredictedMinutes int     `json:"predicted_minutes"`
	Confidence       float64 `json:"confidence"`
	Basis            string  `json:"basis"`
	SimilarTasks     int     `json:"similar_tasks_count,omitempty"`
}

// Analyzer records task completions and mines the resulting history for
// performance summaries, behavioral patterns, and completion-time
// predictions. History is append-only per user.
type Analyzer struct {
	store     domain.DocumentStore
	tracker   domain.TimeTracker
	publisher eventbus.Publisher
	logger    *slog.Logger
	mu        sync.Mutex
	now       func() time.Time
}

// NewAnalyzer creates an analyzer. tracker and publisher are optional:
// without a tracker, completions recorded with no duration stay at zero;
// without a publisher, no events are emitted.
func NewAnalyzer(store domain.DocumentStore, tracker domain.TimeTracker, publisher eventbus.Publisher, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		store:     store,
		tracker:   tracker,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordCompletion appends a completion record to the user's history.
// When completionMinutes is not positive and a time tracker is attached,
// the tracked time for the task is used instead. When estimatedMinutes
// is not positive, the task's own estimate is used. A CompletionRecorded
// event is published best-effort after the history is saved.
func (a *Analyzer) RecordCompletion(ctx context.Context, userID string, task domain.TaskRecord, completionMinutes, estimatedMinutes int) (domain.PerformanceRecord, error) {
	if completionMinutes <= 0 && a.tracker != nil {
		seconds, err := a.tracker.TaskSeconds(ctx, task.ID, userID)
		if err != nil {
			a.logger.Warn("time tracker lookup failed",
				"task_id", task.ID,
				"user_id", userID,
				"error", err,
			)
		} else {
			completionMinutes = int(seconds / 60)
		}
	}
	if estimatedMinutes <= 0 {
		estimatedMinutes = task.EstimatedTime
	}

	record := domain.PerformanceRecord{
		TaskID:            task.ID,
		CompletedAt:       a.now().UTC(),
		Category:          task.Category,
		Type:              task.Type,
		Priority:          task.NormalizedPriority(),
		Tags:              task.Tags,
		CompletionMinutes: completionMinutes,
		EstimatedMinutes:  estimatedMinutes,
		Accuracy:          domain.EstimationAccuracy(estimatedMinutes, completionMinutes),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	history, err := a.history(ctx, userID)
	if err != nil {
		return domain.PerformanceRecord{}, err
	}
	history = append(history, record)

	doc, err := json.Marshal(history)
	if err != nil {
		return domain.PerformanceRecord{}, fmt.Errorf("encode performance history: %w", err)
	}
	if err := a.store.Put(ctx, domain.CollectionPerformance, userID, doc); err != nil {
		return domain.PerformanceRecord{}, fmt.Errorf("save performance history: %w", err)
	}

	a.publishCompletion(ctx, userID, record)

	a.logger.Info("task completion recorded",
		"user_id", userID,
		"task_id", task.ID,
		"completion_minutes", completionMinutes,
		"accuracy", record.Accuracy,
	)

	return record, nil
}

// publishCompletion emits the event without failing the recording.
func (a *Analyzer) publishCompletion(ctx context.Context, userID string, record domain.PerformanceRecord) {
	if a.publisher == nil {
		return
	}
	event := domain.NewCompletionRecorded(userID, record)
	payload, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("failed to encode completion event", "error", err)
		return
	}
	if err := a.publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
		a.logger.Warn("failed to publish completion event",
			"routing_key", event.RoutingKey(),
			"error", err,
		)
	}
}

// AnalyzeUserPerformance summarizes the user's history, optionally
// restricted to the [start, end] window. Nil bounds are open.
func (a *Analyzer) AnalyzeUserPerformance(ctx context.Context, userID string, start, end *time.Time) (*PerformanceSummary, error) {
	history, err := a.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	if start != nil || end != nil {
		filtered := history[:0:0]
		for _, record := range history {
			if start != nil && record.CompletedAt.Before(*start) {
				continue
			}
			if end != nil && record.CompletedAt.After(*end) {
				continue
			}
			filtered = append(filtered, record)
		}
		history = filtered
	}

	summary := &PerformanceSummary{
		UserID:      userID,
		TaskCount:   len(history),
		ByCategory:  map[string]AttributeStats{},
		ByType:      map[string]AttributeStats{},
		ByPriority:  map[string]AttributeStats{},
		ByTag:       map[string]AttributeStats{},
		ByTimeOfDay: emptyTimeOfDayStats(),
	}
	if len(history) == 0 {
		return summary, nil
	}

	total := 0.0
	for _, record := range history {
		total += record.Accuracy
	}
	summary.AverageAccuracy = total / float64(len(history))

	summary.ByCategory = groupStats(history, func(r domain.PerformanceRecord) []string {
		if r.Category == "" {
			return nil
		}
		return []string{r.Category}
	})
	summary.ByType = groupStats(history, func(r domain.PerformanceRecord) []string {
		if r.Type == "" {
			return nil
		}
		return []string{r.Type}
	})
	summary.ByPriority = groupStats(history, func(r domain.PerformanceRecord) []string {
		if r.Priority == "" {
			return nil
		}
		return []string{r.Priority}
	})
	summary.ByTag = groupStats(history, func(r domain.PerformanceRecord) []string {
		return r.Tags
	})
	for bucket, stats := range groupStats(history, func(r domain.PerformanceRecord) []string {
		return []string{domain.TimeOfDay(r.CompletedAt)}
	}) {
		summary.ByTimeOfDay[bucket] = stats
	}

	return summary, nil
}

// CompletionPatterns mines day-of-week, time-of-day, task-size, and
// sequential patterns from the user's history, optionally filtered by
// task type.
func (a *Analyzer) CompletionPatterns(ctx context.Context, userID, taskType string) (*CompletionPatterns, error) {
	history, err := a.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	if taskType != "" {
		filtered := history[:0:0]
		for _, record := range history {
			if record.Type == taskType {
				filtered = append(filtered, record)
			}
		}
		history = filtered
	}

	patterns := &CompletionPatterns{
		UserID:    userID,
		TaskCount: len(history),
		Sequential: SequentialPattern{
			Transitions: map[string]map[string]int{},
		},
	}
	if len(history) == 0 {
		patterns.DayOfWeek = distribution(nil, weekdayNames)
		patterns.TimeOfDay = distribution(nil, timeOfDayNames)
		patterns.TaskSize = sizePattern(nil)
		return patterns, nil
	}

	days := make([]string, len(history))
	times := make([]string, len(history))
	for i, record := range history {
		days[i] = record.CompletedAt.Weekday().String()
		times[i] = domain.TimeOfDay(record.CompletedAt)
	}
	patterns.DayOfWeek = distribution(days, weekdayNames)
	patterns.TimeOfDay = distribution(times, timeOfDayNames)
	patterns.TaskSize = sizePattern(history)
	patterns.Sequential = sequentialPattern(history)

	return patterns, nil
}

// PredictCompletionTime predicts how long a task will take the user,
// based on completions of similar tasks (matching category and type, or
// sharing a tag). With no usable history, the prediction falls back to
// the task's own estimate at 0.5 confidence.
func (a *Analyzer) PredictCompletionTime(ctx context.Context, userID string, task domain.TaskRecord) (*Prediction, error) {
	history, err := a.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	fallback := &Prediction{
		TaskID:           task.ID,
		UserID:           userID,
		PredictedMinutes: task.EstimatedTime,
		Confidence:       0.5,
		Basis:            "task_estimate",
	}
	if len(history) == 0 {
		return fallback, nil
	}

	similar := similarRecords(history, task)
	if len(similar) == 0 {
		return fallback, nil
	}

	times := make([]float64, 0, len(similar))
	for _, record := range similar {
		times = append(times, float64(record.CompletionMinutes))
	}
	avg := mean(times)

	confidence := math.Min(0.9, 0.5+float64(len(times))/20)
	if len(times) > 1 {
		normalizedVariance := math.Min(1.0, sampleVariance(times, avg)/(avg+1))
		confidence *= 1.0 - normalizedVariance*0.5
	}

	predicted := avg
	basis := "historical"
	if task.EstimatedTime > 0 {
		predicted = (avg + float64(task.EstimatedTime)) / 2
		basis = "historical_and_task_estimate"
	}

	return &Prediction{
		TaskID:           task.ID,
		UserID:           userID,
		PredictedMinutes: int(math.Round(predicted)),
		Confidence:       math.Round(confidence*100) / 100,
		Basis:            basis,
		SimilarTasks:     len(similar),
	}, nil
}

func (a *Analyzer) history(ctx context.Context, userID string) ([]domain.PerformanceRecord, error) {
	doc, err := a.store.Get(ctx, domain.CollectionPerformance, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load performance history: %w", err)
	}

	var history []domain.PerformanceRecord
	if err := json.Unmarshal(doc, &history); err != nil {
		return nil, fmt.Errorf("decode performance history for user %s: %w", userID, err)
	}
	return history, nil
}

var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var timeOfDayNames = []string{"morning", "afternoon", "evening", "night"}

var sizeNames = []string{domain.SizeSmall, domain.SizeMedium, domain.SizeLarge}

func emptyTimeOfDayStats() map[string]AttributeStats {
	stats := make(map[string]AttributeStats, len(timeOfDayNames))
	for _, name := range timeOfDayNames {
		stats[name] = AttributeStats{}
	}
	return stats
}

// groupStats buckets records by the keys the selector yields for each
// record and aggregates count, accuracy, and completion time per bucket.
func groupStats(history []domain.PerformanceRecord, keys func(domain.PerformanceRecord) []string) map[string]AttributeStats {
	type bucket struct {
		count     int
		accuracy  float64
		completed float64
	}
	buckets := map[string]*bucket{}
	for _, record := range history {
		for _, key := range keys(record) {
			if key == "" {
				continue
			}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{}
				buckets[key] = b
			}
			b.count++
			b.accuracy += record.Accuracy
			b.completed += float64(record.CompletionMinutes)
		}
	}

	stats := make(map[string]AttributeStats, len(buckets))
	for key, b := range buckets {
		stats[key] = AttributeStats{
			Count:                 b.count,
			AverageAccuracy:       b.accuracy / float64(b.count),
			AverageCompletionTime: b.completed / float64(b.count),
		}
	}
	return stats
}

// distribution counts occurrences per bucket and orders buckets by
// frequency, keeping the canonical order on ties.
func distribution(values []string, buckets []string) DistributionPattern {
	counts := make(map[string]int, len(buckets))
	for _, bucket := range buckets {
		counts[bucket] = 0
	}
	for _, value := range values {
		counts[value]++
	}

	total := len(values)
	percentages := make(map[string]float64, len(buckets))
	for bucket, count := range counts {
		if total > 0 {
			percentages[bucket] = float64(count) / float64(total) * 100
		} else {
			percentages[bucket] = 0
		}
	}

	preferred := append([]string(nil), buckets...)
	sort.SliceStable(preferred, func(i, j int) bool {
		return counts[preferred[i]] > counts[preferred[j]]
	})

	return DistributionPattern{
		Counts:      counts,
		Percentages: percentages,
		Preferred:   preferred,
	}
}

// sizePattern buckets completions by actual duration and orders sizes by
// average accuracy.
func sizePattern(history []domain.PerformanceRecord) TaskSizePattern {
	counts := map[string]int{}
	accuracySums := map[string]float64{}
	for _, name := range sizeNames {
		counts[name] = 0
		accuracySums[name] = 0
	}

	for _, record := range history {
		size := domain.SizeBucket(record.CompletionMinutes)
		counts[size]++
		accuracySums[size] += record.Accuracy
	}

	total := len(history)
	percentages := make(map[string]float64, len(sizeNames))
	accuracies := make(map[string]float64, len(sizeNames))
	for _, name := range sizeNames {
		if total > 0 {
			percentages[name] = float64(counts[name]) / float64(total) * 100
		} else {
			percentages[name] = 0
		}
		if counts[name] > 0 {
			accuracies[name] = accuracySums[name] / float64(counts[name])
		} else {
			accuracies[name] = 0
		}
	}

	preferred := append([]string(nil), sizeNames...)
	sort.SliceStable(preferred, func(i, j int) bool {
		return accuracies[preferred[i]] > accuracies[preferred[j]]
	})

	return TaskSizePattern{
		Counts:            counts,
		Percentages:       percentages,
		AverageAccuracies: accuracies,
		Preferred:         preferred,
	}
}

// sequentialPattern counts type-to-type transitions in completion order.
func sequentialPattern(history []domain.PerformanceRecord) SequentialPattern {
	ordered := append([]domain.PerformanceRecord(nil), history...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
	})

	transitions := map[string]map[string]int{}
	for i := 0; i < len(ordered)-1; i++ {
		current, next := ordered[i].Type, ordered[i+1].Type
		if current == "" || next == "" {
			continue
		}
		if transitions[current] == nil {
			transitions[current] = map[string]int{}
		}
		transitions[current][next]++
	}

	return SequentialPattern{Transitions: transitions}
}

// similarRecords selects history records matching the task's category and
// type, plus records sharing any tag, de-duplicated by task id.
func similarRecords(history []domain.PerformanceRecord, task domain.TaskRecord) []domain.PerformanceRecord {
	taskTags := map[string]struct{}{}
	for _, tag := range task.Tags {
		taskTags[tag] = struct{}{}
	}

	seen := map[string]struct{}{}
	var similar []domain.PerformanceRecord

	add := func(record domain.PerformanceRecord) {
		if _, dup := seen[record.TaskID]; dup {
			return
		}
		seen[record.TaskID] = struct{}{}
		similar = append(similar, record)
	}

	if task.Category != "" && task.Type != "" {
		for _, record := range history {
			if record.Category == task.Category && record.Type == task.Type {
				add(record)
			}
		}
	}
	if len(taskTags) > 0 {
		for _, record := range history {
			for _, tag := range record.Tags {
				if _, ok := taskTags[tag]; ok {
					add(record)
					break
				}
			}
		}
	}

	return similar
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance is the n-1 variance of the values around the given mean.
func sampleVariance(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values)-1)
}
