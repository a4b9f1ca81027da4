package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
	"github.com/felixgeelhaar/tascade/internal/recommendation/factor"
)

// defaultRecommendationLimit caps recommendation lists when the caller
// does not specify a limit.
const defaultRecommendationLimit = 10

// WorkingContext carries the user's current activity signals into a
// scoring pass.
type WorkingContext struct {
	CurrentFiles     []string
	CurrentDirectory string
	RecentCommands   []string
}

// Recommendation pairs a task with its composite score and the
// per-factor breakdown that produced it.
type Recommendation struct {
	Task         domain.TaskRecord  `json:"task"`
	Score        float64            `json:"score"`
	FactorScores map[string]float64 `json:"factor_scores"`
	Timestamp    time.Time          `json:"timestamp"`
}

// FactorContribution is one factor's share of an explanation.
type FactorContribution struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Explanation describes why a task scored the way it did.
type Explanation struct {
	TaskID       string               `json:"task_id"`
	OverallScore float64              `json:"overall_score"`
	TopFactors   []FactorContribution `json:"top_factors"`
	AllFactors   map[string]float64   `json:"all_factors"`
	Text         string               `json:"explanation"`
}

type weightedFactor struct {
	factor factor.Factor
	weight float64
}

// Engine scores candidate tasks with an ordered set of weighted factors
// and produces ranked, workload-balanced recommendations. Factor
// failures are isolated: an erroring or panicking factor contributes
// zero and the pass continues.
type Engine struct {
	factors []weightedFactor

	prefs    *PreferenceManager
	analyzer *Analyzer
	balancer *Balancer
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine creates an engine with the default factor set. The
// collaborators are optional; factors that depend on an absent
// collaborator are not registered.
func NewEngine(prefs *PreferenceManager, analyzer *Analyzer, balancer *Balancer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		prefs:    prefs,
		analyzer: analyzer,
		balancer: balancer,
		logger:   logger,
		now:      time.Now,
	}

	e.AddFactor(factor.NewPriority(), 1.0)
	e.AddFactor(factor.NewDeadline(7), 1.0)
	e.AddFactor(factor.NewDependency(), 0.8)
	if prefs != nil {
		e.AddFactor(factor.NewPreference(), 0.7)
	}
	if analyzer != nil {
		e.AddFactor(factor.NewHistoricalSuccess(), 0.6)
		e.AddFactor(factor.NewCompletionTime(true), 0.5)
	}
	if balancer != nil {
		e.AddFactor(factor.NewWorkload(), 0.5)
	}
	e.AddFactor(factor.NewContextAwareness(), 0.7)
	e.AddFactor(factor.NewCollaboration(), 0.6)
	e.AddFactor(factor.NewLearning(), 0.5)

	return e
}

// AddFactor registers a factor at the end of the scoring order. A factor
// with the same name replaces the existing one in place.
func (e *Engine) AddFactor(f factor.Factor, weight float64) {
	for i := range e.factors {
		if e.factors[i].factor.Name() == f.Name() {
			e.factors[i] = weightedFactor{factor: f, weight: weight}
			return
		}
	}
	e.factors = append(e.factors, weightedFactor{factor: f, weight: weight})
}

// RemoveFactor unregisters the named factor. It reports whether the
// factor was registered.
func (e *Engine) RemoveFactor(name string) bool {
	for i := range e.factors {
		if e.factors[i].factor.Name() == name {
			e.factors = append(e.factors[:i], e.factors[i+1:]...)
			return true
		}
	}
	return false
}

// FactorWeights returns the current factor weights by name.
func (e *Engine) FactorWeights() map[string]float64 {
	weights := make(map[string]float64, len(e.factors))
	for _, wf := range e.factors {
		weights[wf.factor.Name()] = wf.weight
	}
	return weights
}

// SetFactorWeight updates the weight of a registered factor. It reports
// whether the factor was found.
func (e *Engine) SetFactorWeight(name string, weight float64) bool {
	for i := range e.factors {
		if e.factors[i].factor.Name() == name {
			e.factors[i].weight = weight
			return true
		}
	}
	return false
}

// RecommendTasks scores the candidates for the user and returns the top
// recommendations, ordered by score. With a balancer attached, the top
// twice-limit candidates are first filtered through workload balancing
// so the final list respects the user's capacity. A non-positive limit
// falls back to the default of ten.
func (e *Engine) RecommendTasks(ctx context.Context, userID string, tasks []domain.TaskRecord, wctx *WorkingContext, limit int) ([]Recommendation, error) {
	if len(tasks) == 0 {
		return []Recommendation{}, nil
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	fctx, err := e.buildContext(ctx, userID, tasks, wctx)
	if err != nil {
		return nil, err
	}

	scored := e.scoreAll(ctx, tasks, fctx)

	if e.balancer != nil && userID != "" {
		poolSize := limit * 2
		if poolSize > len(scored) {
			poolSize = len(scored)
		}
		pool := make([]domain.TaskRecord, poolSize)
		for i := 0; i < poolSize; i++ {
			pool[i] = scored[i].Task
		}

		balanced, err := e.balancer.BalanceWorkload(ctx, userID, pool, 0)
		if err != nil {
			return nil, fmt.Errorf("balance workload: %w", err)
		}
		if len(balanced) > 0 {
			scored = e.scoreAll(ctx, balanced, fctx)
		}
	}

	if len(scored) > limit {
		scored = scored[:limit]
	}

	e.logger.Debug("tasks recommended",
		"user_id", userID,
		"candidates", len(tasks),
		"recommended", len(scored),
	)

	return scored, nil
}

// scoreAll scores every task and sorts the results by score, descending.
// The sort is stable: equally scored tasks keep their input order.
func (e *Engine) scoreAll(ctx context.Context, tasks []domain.TaskRecord, fctx *factor.Context) []Recommendation {
	scored := make([]Recommendation, 0, len(tasks))
	for i := range tasks {
		ts := e.ScoreTask(ctx, &tasks[i], fctx)
		scored = append(scored, Recommendation{
			Task:         tasks[i],
			Score:        ts.OverallScore,
			FactorScores: ts.FactorScores,
			Timestamp:    ts.Timestamp,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// ScoreTask computes the weighted composite score for one task. Each
// factor runs isolated; an error or panic records a zero score for that
// factor and the remaining factors still run. The composite divides by
// the total weight of all registered factors, so a failed factor drags
// the composite down rather than being ignored.
func (e *Engine) ScoreTask(ctx context.Context, task *domain.TaskRecord, fctx *factor.Context) domain.TaskScore {
	factorScores := make(map[string]float64, len(e.factors))
	weightedSum := 0.0
	totalWeight := 0.0

	for _, wf := range e.factors {
		totalWeight += wf.weight

		score, err := e.safeScore(wf.factor, task, fctx)
		if err != nil {
			e.logger.Error("factor scoring failed",
				"factor", wf.factor.Name(),
				"task_id", task.ID,
				"error", err,
			)
			factorScores[wf.factor.Name()] = 0
			continue
		}

		factorScores[wf.factor.Name()] = score
		weightedSum += score * wf.weight
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}

	return domain.TaskScore{
		TaskID:       task.ID,
		OverallScore: overall,
		FactorScores: factorScores,
		Timestamp:    e.now().UTC(),
	}
}

// safeScore runs one factor, converting panics into errors.
func (e *Engine) safeScore(f factor.Factor, task *domain.TaskRecord, fctx *factor.Context) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factor %s panicked: %v", f.Name(), r)
		}
	}()
	return f.Score(task, fctx)
}

// Explain scores one task against the candidate set and describes the
// strongest contributing factors in plain language.
func (e *Engine) Explain(ctx context.Context, userID string, task domain.TaskRecord, candidates []domain.TaskRecord, wctx *WorkingContext) (*Explanation, error) {
	fctx, err := e.buildContext(ctx, userID, candidates, wctx)
	if err != nil {
		return nil, err
	}

	ts := e.ScoreTask(ctx, &task, fctx)

	contributions := make([]FactorContribution, 0, len(e.factors))
	for _, wf := range e.factors {
		name := wf.factor.Name()
		contributions = append(contributions, FactorContribution{Name: name, Score: ts.FactorScores[name]})
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Score > contributions[j].Score
	})

	top := contributions
	if len(top) > 3 {
		top = top[:3]
	}

	return &Explanation{
		TaskID:       task.ID,
		OverallScore: ts.OverallScore,
		TopFactors:   top,
		AllFactors:   ts.FactorScores,
		Text:         explanationText(task, top),
	}, nil
}

// buildContext assembles the shared factor context for a scoring pass:
// the task index, the user's preferences, success ratios derived from
// history, and workload metrics over the candidate set.
func (e *Engine) buildContext(ctx context.Context, userID string, tasks []domain.TaskRecord, wctx *WorkingContext) (*factor.Context, error) {
	fctx := &factor.Context{
		UserID:   userID,
		AllTasks: make(map[string]*domain.TaskRecord, len(tasks)),
	}
	for i := range tasks {
		fctx.AllTasks[tasks[i].ID] = &tasks[i]
	}
	if wctx != nil {
		fctx.CurrentFiles = wctx.CurrentFiles
		fctx.CurrentDirectory = wctx.CurrentDirectory
		fctx.RecentCommands = wctx.RecentCommands
	}
	if userID == "" {
		return fctx, nil
	}

	if e.prefs != nil {
		prefs, err := e.prefs.Preferences(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load preferences: %w", err)
		}
		fctx.Preferences = prefs
	}

	if e.analyzer != nil {
		summary, err := e.analyzer.AnalyzeUserPerformance(ctx, userID, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("analyze performance: %w", err)
		}
		fctx.CategorySuccess, fctx.TypeSuccess = summary.SuccessRatios()
	}

	if e.balancer != nil {
		metrics, err := e.balancer.Metrics(ctx, userID, tasks)
		if err != nil {
			return nil, fmt.Errorf("workload metrics: %w", err)
		}
		fctx.Metrics = metrics
	}

	return fctx, nil
}

// explanationText renders the top factor contributions as a short
// human-readable justification.
func explanationText(task domain.TaskRecord, top []FactorContribution) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task %q was recommended because:\n", task.Title)

	for _, c := range top {
		strength := "somewhat"
		switch {
		case c.Score > 0.7:
			strength = "strongly"
		case c.Score > 0.4:
			strength = "moderately"
		}

		switch c.Name {
		case factor.NamePriority:
			fmt.Fprintf(&sb, "- It has a %s high priority (%s)\n", strength, task.NormalizedPriority())
		case factor.NameDeadline:
			if task.DueDate != nil {
				fmt.Fprintf(&sb, "- It has a %s urgent deadline\n", strength)
			} else {
				fmt.Fprintf(&sb, "- Deadline considerations were %s important\n", strength)
			}
		case factor.NameDependency:
			fmt.Fprintf(&sb, "- It has %s few or completed dependencies\n", strength)
		case factor.NamePreference:
			fmt.Fprintf(&sb, "- It %s matches your preferences\n", strength)
		case factor.NameHistoricalSuccess:
			fmt.Fprintf(&sb, "- You have %s succeeded with similar tasks in the past\n", strength)
		case factor.NameCompletionTime:
			fmt.Fprintf(&sb, "- Its estimated completion time %s fits your preferences\n", strength)
		case factor.NameWorkload:
			fmt.Fprintf(&sb, "- It %s helps balance your workload\n", strength)
		case factor.NameContextAwareness:
			fmt.Fprintf(&sb, "- It %s relates to your current working context\n", strength)
		case factor.NameCollaboration:
			fmt.Fprintf(&sb, "- It %s aligns with your collaboration preferences\n", strength)
		case factor.NameLearning:
			fmt.Fprintf(&sb, "- It %s provides learning opportunities in your areas of interest\n", strength)
		default:
			fmt.Fprintf(&sb, "- %s: %.2f\n", c.Name, c.Score)
		}
	}

	return sb.String()
}
