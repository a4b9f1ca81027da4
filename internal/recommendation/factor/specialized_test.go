package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

func TestContextAwareness_Score(t *testing.T) {
	f := NewContextAwareness()

	t.Run("no working context scores neutral", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Title: "Fix login bug"}
		score, err := f.Score(task, &Context{})
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})

	t.Run("open file referenced in description scores high", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Description: "Update `auth.go` token checks"}
		fctx := &Context{CurrentFiles: []string{"/repo/internal/auth/auth.go"}}

		score, err := f.Score(task, fctx)
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("category matching working directory contributes", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Category: "billing"}
		fctx := &Context{CurrentDirectory: "/repo/services/billing"}

		score, err := f.Score(task, fctx)
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("averages independent signals", func(t *testing.T) {
		task := &domain.TaskRecord{
			ID:          "t1",
			Category:    "billing",
			Description: "Refactor `invoice.go` totals",
		}
		fctx := &Context{
			CurrentFiles:     []string{"/repo/billing/invoice.go"},
			CurrentDirectory: "/repo/services/billing",
		}

		score, err := f.Score(task, fctx)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("recent command overlap contributes", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Title: "Tune database indexes", Category: "database"}
		fctx := &Context{RecentCommands: []string{"psql -d app", "explain analyze select"}}

		score, err := f.Score(task, fctx)
		require.NoError(t, err)
		assert.Greater(t, score, 0.5)
	})
}

func TestCollaboration_Score(t *testing.T) {
	f := NewCollaboration()

	withMode := func(mode string) *Context {
		return &Context{
			UserID: "me",
			Preferences: []domain.UserPreference{
				{Type: domain.PreferenceCollaboration, Value: mode, Weight: 1.0},
			},
		}
	}

	t.Run("no preference scores neutral", func(t *testing.T) {
		score, err := f.Score(&domain.TaskRecord{ID: "t1"}, &Context{UserID: "me"})
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})

	t.Run("solo favors unassigned or self-assigned tasks", func(t *testing.T) {
		fctx := withMode("solo")

		score, err := f.Score(&domain.TaskRecord{ID: "t1"}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, score)

		score, err = f.Score(&domain.TaskRecord{ID: "t2", Assignees: []string{"me"}}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, score)

		score, err = f.Score(&domain.TaskRecord{ID: "t3", Assignees: []string{"me", "alex"}}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.3, score)
	})

	t.Run("team favors multi-assignee tasks", func(t *testing.T) {
		fctx := withMode("team")

		score, err := f.Score(&domain.TaskRecord{ID: "t1", Assignees: []string{"me", "alex"}}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, score)

		score, err = f.Score(&domain.TaskRecord{ID: "t2", Assignees: []string{"me"}}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.4, score)
	})

	t.Run("review favors tasks where the user reviews", func(t *testing.T) {
		fctx := withMode("review")

		score, err := f.Score(&domain.TaskRecord{ID: "t1", Reviewers: []string{"alex", "me"}}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, score)

		score, err = f.Score(&domain.TaskRecord{ID: "t2", Reviewers: []string{"alex"}}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})

	t.Run("lead favors tasks the user owns", func(t *testing.T) {
		fctx := withMode("lead")

		score, err := f.Score(&domain.TaskRecord{ID: "t1", Owner: "me"}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, score)

		score, err = f.Score(&domain.TaskRecord{ID: "t2", Owner: "alex"}, fctx)
		require.NoError(t, err)
		assert.Equal(t, 0.4, score)
	})

	t.Run("unknown mode scores neutral", func(t *testing.T) {
		score, err := f.Score(&domain.TaskRecord{ID: "t1"}, withMode("pair"))
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})
}

func TestLearning_Score(t *testing.T) {
	f := NewLearning()

	withInterests := func(interests ...string) *Context {
		return &Context{
			UserID: "me",
			Preferences: []domain.UserPreference{
				{Type: domain.PreferenceLearning, Value: interests, Weight: 1.0},
			},
		}
	}

	t.Run("no interests scores neutral", func(t *testing.T) {
		score, err := f.Score(&domain.TaskRecord{ID: "t1"}, &Context{UserID: "me"})
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})

	t.Run("tag match counts fully", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Tags: []string{"grpc"}}
		score, err := f.Score(task, withInterests("grpc"))
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("category and type matches ignore case", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Category: "Kubernetes", Type: "Infra"}
		score, err := f.Score(task, withInterests("kubernetes", "infra"))
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("description mention counts half", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Description: "Evaluate Terraform modules"}
		score, err := f.Score(task, withInterests("terraform"))
		require.NoError(t, err)
		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("score is the matched fraction of interests", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Tags: []string{"grpc"}}
		score, err := f.Score(task, withInterests("grpc", "rust", "wasm", "ml"))
		require.NoError(t, err)
		assert.InDelta(t, 0.25, score, 1e-9)
	})

	t.Run("interests survive a JSON round-trip as []any", func(t *testing.T) {
		task := &domain.TaskRecord{ID: "t1", Tags: []string{"grpc"}}
		fctx := &Context{
			UserID: "me",
			Preferences: []domain.UserPreference{
				{Type: domain.PreferenceLearning, Value: []any{"grpc"}, Weight: 1.0},
			},
		}
		score, err := f.Score(task, fctx)
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})
}
