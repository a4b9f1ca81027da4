package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
	"github.com/felixgeelhaar/tascade/internal/recommendation/infrastructure/persistence"
)

func newTestBalancer() *Balancer {
	return NewBalancer(persistence.NewMemoryStore(), nil, nil)
}

func TestBalancer_Settings(t *testing.T) {
	ctx := context.Background()
	b := newTestBalancer()

	t.Run("unknown user gets defaults", func(t *testing.T) {
		settings, err := b.UserSettings(ctx, "nobody")
		require.NoError(t, err)

		assert.Equal(t, 480, settings.DailyCapacityMinutes)
		assert.Equal(t, 5, settings.MaxConcurrentTasks)
		assert.Equal(t, domain.SizeMedium, settings.PreferredTaskSize)
		assert.Equal(t, 1.5, settings.PriorityWeights[domain.PriorityHigh])
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		saved, err := b.SetUserSettings(ctx, domain.WorkloadSettings{
			UserID:               "alice",
			DailyCapacityMinutes: 300,
			MaxConcurrentTasks:   3,
			PreferredTaskSize:    domain.SizeSmall,
			CategoryLimits:       map[string]int{"backend": 2},
		})
		require.NoError(t, err)
		assert.False(t, saved.UpdatedAt.IsZero())

		settings, err := b.UserSettings(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 300, settings.DailyCapacityMinutes)
		assert.Equal(t, 3, settings.MaxConcurrentTasks)
		assert.Equal(t, 2, settings.CategoryLimits["backend"])
		// Unset priority weights fall back to defaults.
		assert.Equal(t, 2.0, settings.PriorityWeights[domain.PriorityCritical])
	})

	t.Run("zero fields are defaulted on set", func(t *testing.T) {
		saved, err := b.SetUserSettings(ctx, domain.WorkloadSettings{UserID: "bob"})
		require.NoError(t, err)

		assert.Equal(t, 480, saved.DailyCapacityMinutes)
		assert.Equal(t, 5, saved.MaxConcurrentTasks)
		assert.Equal(t, domain.SizeMedium, saved.PreferredTaskSize)
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		_, err := b.SetUserSettings(ctx, domain.WorkloadSettings{})
		assert.Error(t, err)
	})
}

func TestBalancer_BalanceWorkload(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input yields empty output", func(t *testing.T) {
		b := newTestBalancer()
		balanced, err := b.BalanceWorkload(ctx, "alice", nil, 0)
		require.NoError(t, err)
		assert.Empty(t, balanced)
	})

	t.Run("higher priority tasks are admitted first", func(t *testing.T) {
		b := newTestBalancer()
		tasks := []domain.TaskRecord{
			{ID: "low", Priority: domain.PriorityLow, EstimatedTime: 60},
			{ID: "critical", Priority: domain.PriorityCritical, EstimatedTime: 60},
			{ID: "high", Priority: domain.PriorityHigh, EstimatedTime: 60},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 0)
		require.NoError(t, err)
		require.Len(t, balanced, 3)
		assert.Equal(t, "critical", balanced[0].ID)
		assert.Equal(t, "high", balanced[1].ID)
		assert.Equal(t, "low", balanced[2].ID)
	})

	t.Run("capacity limits total estimated time, skipping oversize tasks", func(t *testing.T) {
		b := newTestBalancer()
		_, err := b.SetUserSettings(ctx, domain.WorkloadSettings{
			UserID:               "alice",
			DailyCapacityMinutes: 120,
		})
		require.NoError(t, err)

		tasks := []domain.TaskRecord{
			{ID: "big", Priority: domain.PriorityCritical, EstimatedTime: 100},
			{ID: "too-big", Priority: domain.PriorityHigh, EstimatedTime: 60},
			{ID: "fits", Priority: domain.PriorityLow, EstimatedTime: 20},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 0)
		require.NoError(t, err)

		// "too-big" does not fit after "big", but the scan continues
		// and the smaller low-priority task is still admitted.
		require.Len(t, balanced, 2)
		assert.Equal(t, "big", balanced[0].ID)
		assert.Equal(t, "fits", balanced[1].ID)
	})

	t.Run("category limits cap tasks per category", func(t *testing.T) {
		b := newTestBalancer()
		_, err := b.SetUserSettings(ctx, domain.WorkloadSettings{
			UserID:         "alice",
			CategoryLimits: map[string]int{"backend": 1},
		})
		require.NoError(t, err)

		tasks := []domain.TaskRecord{
			{ID: "b1", Category: "backend", EstimatedTime: 30},
			{ID: "b2", Category: "backend", EstimatedTime: 30},
			{ID: "f1", Category: "frontend", EstimatedTime: 30},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 0)
		require.NoError(t, err)

		ids := make([]string, 0, len(balanced))
		for _, task := range balanced {
			ids = append(ids, task.ID)
		}
		assert.ElementsMatch(t, []string{"b1", "f1"}, ids)
	})

	t.Run("max concurrent tasks caps the selection", func(t *testing.T) {
		b := newTestBalancer()
		_, err := b.SetUserSettings(ctx, domain.WorkloadSettings{
			UserID:             "alice",
			MaxConcurrentTasks: 2,
		})
		require.NoError(t, err)

		tasks := []domain.TaskRecord{
			{ID: "t1", EstimatedTime: 30},
			{ID: "t2", EstimatedTime: 30},
			{ID: "t3", EstimatedTime: 30},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 0)
		require.NoError(t, err)
		assert.Len(t, balanced, 2)
	})

	t.Run("preferred size gives a selection bonus", func(t *testing.T) {
		b := newTestBalancer()
		_, err := b.SetUserSettings(ctx, domain.WorkloadSettings{
			UserID:            "alice",
			PreferredTaskSize: domain.SizeSmall,
		})
		require.NoError(t, err)

		// Equal priority, so the size bonus decides the order.
		tasks := []domain.TaskRecord{
			{ID: "medium", Priority: domain.PriorityMedium, EstimatedTime: 60},
			{ID: "small", Priority: domain.PriorityMedium, EstimatedTime: 20},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 0)
		require.NoError(t, err)
		require.Len(t, balanced, 2)
		assert.Equal(t, "small", balanced[0].ID)
	})

	t.Run("shorter period scales capacity down", func(t *testing.T) {
		b := newTestBalancer()
		// Default capacity 480/day; 6 hours gives 120 minutes.
		tasks := []domain.TaskRecord{
			{ID: "t1", EstimatedTime: 100},
			{ID: "t2", EstimatedTime: 100},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 6*time.Hour)
		require.NoError(t, err)
		assert.Len(t, balanced, 1)
	})

	t.Run("tasks without estimates count as one hour", func(t *testing.T) {
		b := newTestBalancer()
		_, err := b.SetUserSettings(ctx, domain.WorkloadSettings{
			UserID:               "alice",
			DailyCapacityMinutes: 90,
		})
		require.NoError(t, err)

		tasks := []domain.TaskRecord{
			{ID: "t1"},
			{ID: "t2"},
		}

		balanced, err := b.BalanceWorkload(ctx, "alice", tasks, 0)
		require.NoError(t, err)
		assert.Len(t, balanced, 1)
	})
}

func TestBalancer_Metrics(t *testing.T) {
	ctx := context.Background()
	b := newTestBalancer()

	t.Run("empty tasks yield zero metrics", func(t *testing.T) {
		metrics, err := b.Metrics(ctx, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, metrics.TotalTasks)
		assert.Empty(t, metrics.CategoryBalance)
	})

	t.Run("balances sum to one per dimension", func(t *testing.T) {
		tasks := []domain.TaskRecord{
			{ID: "t1", Category: "backend", Priority: domain.PriorityHigh, EstimatedTime: 20},
			{ID: "t2", Category: "backend", Priority: domain.PriorityLow, EstimatedTime: 60},
			{ID: "t3", Category: "frontend", Priority: domain.PriorityHigh, EstimatedTime: 150},
			{ID: "t4", Category: "frontend", Priority: domain.PriorityHigh, EstimatedTime: 60},
		}

		metrics, err := b.Metrics(ctx, "alice", tasks)
		require.NoError(t, err)

		assert.Equal(t, 4, metrics.TotalTasks)
		assert.Equal(t, 290, metrics.TotalEstimatedMinutes)
		assert.InDelta(t, 0.5, metrics.CategoryBalance["backend"], 1e-9)
		assert.InDelta(t, 0.75, metrics.PriorityBalance[domain.PriorityHigh], 1e-9)
		assert.InDelta(t, 0.25, metrics.SizeBalance[domain.SizeSmall], 1e-9)
		assert.InDelta(t, 0.5, metrics.SizeBalance[domain.SizeMedium], 1e-9)
		assert.InDelta(t, 0.25, metrics.SizeBalance[domain.SizeLarge], 1e-9)
		assert.InDelta(t, 290.0/480.0*100, metrics.WorkloadPercentage, 1e-9)
	})
}

func TestBalancer_OptimalTaskCount(t *testing.T) {
	ctx := context.Background()

	t.Run("without history assumes one-hour tasks", func(t *testing.T) {
		b := newTestBalancer()
		// 480 capacity / 60 = 8, capped at 5 concurrent.
		count, err := b.OptimalTaskCount(ctx, "alice", 0)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("historical average shortens or lengthens the estimate", func(t *testing.T) {
		store := persistence.NewMemoryStore()
		analyzer := NewAnalyzer(store, nil, nil, nil)
		b := NewBalancer(store, analyzer, nil)

		// Average completion of 120 minutes in one category.
		past := domain.TaskRecord{Category: "backend", Type: "feature"}
		for _, id := range []string{"p1", "p2"} {
			past.ID = id
			_, err := analyzer.RecordCompletion(context.Background(), "alice", past, 120, 120)
			require.NoError(t, err)
		}

		// 480 / 120 = 4, under the concurrency cap.
		count, err := b.OptimalTaskCount(ctx, "alice", 0)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}
