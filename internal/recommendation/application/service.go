// Package application exposes the recommendation use cases behind a
// single service facade. Every operation returns an envelope carrying a
// success flag and either the payload or an error message, so callers
// embedding the service (CLI, automation) get a uniform result shape.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/tascade/internal/recommendation/application/services"
	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// RecommendationsResult is the envelope for task recommendation calls.
type RecommendationsResult struct {
	Success         bool                      `json:"success"`
	UserID          string                    `json:"user_id,omitempty"`
	Recommendations []services.Recommendation `json:"recommendations,omitempty"`
	Timestamp       time.Time                 `json:"timestamp"`
	Error           string                    `json:"error,omitempty"`
}

// ExplanationResult is the envelope for recommendation explanations.
type ExplanationResult struct {
	Success     bool                  `json:"success"`
	Explanation *services.Explanation `json:"explanation,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// PreferencesResult is the envelope for preference reads and writes.
type PreferencesResult struct {
	Success     bool                    `json:"success"`
	Preferences []domain.UserPreference `json:"preferences,omitempty"`
	Preference  *domain.UserPreference  `json:"preference,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// PerformanceResult is the envelope for completion recording and
// performance analysis.
type PerformanceResult struct {
	Success     bool                         `json:"success"`
	Record      *domain.PerformanceRecord    `json:"record,omitempty"`
	Performance *services.PerformanceSummary `json:"performance,omitempty"`
	Patterns    *services.CompletionPatterns `json:"patterns,omitempty"`
	Prediction  *services.Prediction         `json:"prediction,omitempty"`
	Error       string                       `json:"error,omitempty"`
}

// WorkloadResult is the envelope for workload settings, balancing, and
// metrics.
type WorkloadResult struct {
	Success   bool                     `json:"success"`
	Settings  *domain.WorkloadSettings `json:"settings,omitempty"`
	Balanced  []domain.TaskRecord      `json:"balanced_tasks,omitempty"`
	Metrics   *domain.WorkloadMetrics  `json:"metrics,omitempty"`
	TaskCount int                      `json:"optimal_task_count,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// Service is the recommendation facade composing the engine, preference
// manager, analyzer, and balancer. The task provider supplies candidate
// tasks when the caller passes none.
type Service struct {
	engine   *services.Engine
	prefs    *services.PreferenceManager
	analyzer *services.Analyzer
	balancer *services.Balancer
	tasks    domain.TaskProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the facade. The task provider is optional; without
// one, operations that need candidates require them to be passed in.
func NewService(
	engine *services.Engine,
	prefs *services.PreferenceManager,
	analyzer *services.Analyzer,
	balancer *services.Balancer,
	tasks domain.TaskProvider,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:   engine,
		prefs:    prefs,
		analyzer: analyzer,
		balancer: balancer,
		tasks:    tasks,
		logger:   logger,
		now:      time.Now,
	}
}

// RecommendTasks scores the given tasks (or the provider's pending tasks
// when nil) and returns the top recommendations for the user.
func (s *Service) RecommendTasks(ctx context.Context, userID string, tasks []domain.TaskRecord, wctx *services.WorkingContext, limit int) RecommendationsResult {
	result := RecommendationsResult{UserID: userID, Timestamp: s.now().UTC()}

	tasks, err := s.candidateTasks(ctx, tasks)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	recommendations, err := s.engine.RecommendTasks(ctx, userID, tasks, wctx, limit)
	if err != nil {
		s.logger.Error("recommendation failed", "user_id", userID, "error", err)
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Recommendations = recommendations
	return result
}

// ExplainRecommendation explains the score of one task against the
// current candidate set.
func (s *Service) ExplainRecommendation(ctx context.Context, userID, taskID string, wctx *services.WorkingContext) ExplanationResult {
	task, candidates, err := s.resolveTask(ctx, taskID)
	if err != nil {
		return ExplanationResult{Error: err.Error()}
	}

	explanation, err := s.engine.Explain(ctx, userID, *task, candidates, wctx)
	if err != nil {
		s.logger.Error("explanation failed", "user_id", userID, "task_id", taskID, "error", err)
		return ExplanationResult{Error: err.Error()}
	}

	return ExplanationResult{Success: true, Explanation: explanation}
}

// SetPreference creates or overwrites one preference.
func (s *Service) SetPreference(ctx context.Context, userID string, ptype domain.PreferenceType, value any, weight float64) PreferencesResult {
	pref, err := s.prefs.SetPreference(ctx, userID, ptype, value, weight)
	if err != nil {
		return PreferencesResult{Error: err.Error()}
	}
	return PreferencesResult{Success: true, Preference: &pref}
}

// GetPreferences returns all preferences for a user.
func (s *Service) GetPreferences(ctx context.Context, userID string) PreferencesResult {
	prefs, err := s.prefs.Preferences(ctx, userID)
	if err != nil {
		return PreferencesResult{Error: err.Error()}
	}
	return PreferencesResult{Success: true, Preferences: prefs}
}

// GetPreference returns the preference of one type, if set.
func (s *Service) GetPreference(ctx context.Context, userID string, ptype domain.PreferenceType) PreferencesResult {
	pref, err := s.prefs.Preference(ctx, userID, ptype)
	if err != nil {
		return PreferencesResult{Error: err.Error()}
	}
	if pref == nil {
		return PreferencesResult{Error: fmt.Sprintf("preference %s not set", ptype)}
	}
	return PreferencesResult{Success: true, Preference: pref}
}

// DeletePreference removes the preference of one type.
func (s *Service) DeletePreference(ctx context.Context, userID string, ptype domain.PreferenceType) PreferencesResult {
	removed, err := s.prefs.DeletePreference(ctx, userID, ptype)
	if err != nil {
		return PreferencesResult{Error: err.Error()}
	}
	if !removed {
		return PreferencesResult{Error: fmt.Sprintf("preference %s not set", ptype)}
	}
	return PreferencesResult{Success: true}
}

// ClearPreferences removes all preferences for a user.
func (s *Service) ClearPreferences(ctx context.Context, userID string) PreferencesResult {
	if err := s.prefs.ClearPreferences(ctx, userID); err != nil {
		return PreferencesResult{Error: err.Error()}
	}
	return PreferencesResult{Success: true}
}

// RecordCompletion appends a completion to the user's history. The task
// is resolved through the provider when available so category, type, and
// tags are captured with the record.
func (s *Service) RecordCompletion(ctx context.Context, userID, taskID string, completionMinutes, estimatedMinutes int) PerformanceResult {
	task := domain.TaskRecord{ID: taskID}
	if s.tasks != nil {
		resolved, err := s.tasks.TaskByID(ctx, taskID)
		if err != nil {
			return PerformanceResult{Error: err.Error()}
		}
		if resolved != nil {
			task = *resolved
		}
	}

	record, err := s.analyzer.RecordCompletion(ctx, userID, task, completionMinutes, estimatedMinutes)
	if err != nil {
		s.logger.Error("recording completion failed", "user_id", userID, "task_id", taskID, "error", err)
		return PerformanceResult{Error: err.Error()}
	}
	return PerformanceResult{Success: true, Record: &record}
}

// AnalyzeUserPerformance summarizes the user's history over the last
// given number of days; zero days means the full history.
func (s *Service) AnalyzeUserPerformance(ctx context.Context, userID string, days int) PerformanceResult {
	var start *time.Time
	if days > 0 {
		from := s.now().UTC().AddDate(0, 0, -days)
		start = &from
	}

	summary, err := s.analyzer.AnalyzeUserPerformance(ctx, userID, start, nil)
	if err != nil {
		return PerformanceResult{Error: err.Error()}
	}
	return PerformanceResult{Success: true, Performance: summary}
}

// GetCompletionPatterns mines the user's behavioral completion patterns,
// optionally filtered by task type.
func (s *Service) GetCompletionPatterns(ctx context.Context, userID, taskType string) PerformanceResult {
	patterns, err := s.analyzer.CompletionPatterns(ctx, userID, taskType)
	if err != nil {
		return PerformanceResult{Error: err.Error()}
	}
	return PerformanceResult{Success: true, Patterns: patterns}
}

// PredictCompletionTime predicts how long a task will take the user.
func (s *Service) PredictCompletionTime(ctx context.Context, userID, taskID string) PerformanceResult {
	task, _, err := s.resolveTask(ctx, taskID)
	if err != nil {
		return PerformanceResult{Error: err.Error()}
	}

	prediction, err := s.analyzer.PredictCompletionTime(ctx, userID, *task)
	if err != nil {
		return PerformanceResult{Error: err.Error()}
	}
	return PerformanceResult{Success: true, Prediction: prediction}
}

// SetWorkloadSettings stores the user's capacity configuration.
func (s *Service) SetWorkloadSettings(ctx context.Context, settings domain.WorkloadSettings) WorkloadResult {
	saved, err := s.balancer.SetUserSettings(ctx, settings)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}
	return WorkloadResult{Success: true, Settings: &saved}
}

// GetWorkloadSettings returns the user's capacity configuration,
// defaulted when never set.
func (s *Service) GetWorkloadSettings(ctx context.Context, userID string) WorkloadResult {
	settings, err := s.balancer.UserSettings(ctx, userID)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}
	return WorkloadResult{Success: true, Settings: &settings}
}

// BalanceWorkload selects a capacity-respecting subset of the given
// tasks (or the provider's pending tasks when nil) for the period.
func (s *Service) BalanceWorkload(ctx context.Context, userID string, tasks []domain.TaskRecord, period time.Duration) WorkloadResult {
	tasks, err := s.candidateTasks(ctx, tasks)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}

	balanced, err := s.balancer.BalanceWorkload(ctx, userID, tasks, period)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}
	return WorkloadResult{Success: true, Balanced: balanced}
}

// GetWorkloadMetrics computes distribution metrics over the given tasks
// (or the provider's pending tasks when nil).
func (s *Service) GetWorkloadMetrics(ctx context.Context, userID string, tasks []domain.TaskRecord) WorkloadResult {
	tasks, err := s.candidateTasks(ctx, tasks)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}

	metrics, err := s.balancer.Metrics(ctx, userID, tasks)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}
	return WorkloadResult{Success: true, Metrics: metrics}
}

// GetOptimalTaskCount estimates how many tasks fit in the period.
func (s *Service) GetOptimalTaskCount(ctx context.Context, userID string, period time.Duration) WorkloadResult {
	count, err := s.balancer.OptimalTaskCount(ctx, userID, period)
	if err != nil {
		return WorkloadResult{Error: err.Error()}
	}
	return WorkloadResult{Success: true, TaskCount: count}
}

// candidateTasks returns the passed tasks, or the provider's pending
// tasks when none are passed.
func (s *Service) candidateTasks(ctx context.Context, tasks []domain.TaskRecord) ([]domain.TaskRecord, error) {
	if tasks != nil {
		return tasks, nil
	}
	if s.tasks == nil {
		return nil, fmt.Errorf("no tasks given and no task provider configured")
	}
	pending, err := s.tasks.PendingTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending tasks: %w", err)
	}
	return pending, nil
}

// resolveTask looks a task up through the provider and returns it with
// the current candidate set.
func (s *Service) resolveTask(ctx context.Context, taskID string) (*domain.TaskRecord, []domain.TaskRecord, error) {
	if s.tasks == nil {
		return nil, nil, fmt.Errorf("no task provider configured")
	}
	task, err := s.tasks.TaskByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve task %s: %w", taskID, err)
	}
	if task == nil {
		return nil, nil, fmt.Errorf("task %s not found", taskID)
	}

	candidates, err := s.tasks.PendingTasks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load pending tasks: %w", err)
	}
	return task, candidates, nil
}
