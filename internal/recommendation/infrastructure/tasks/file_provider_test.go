package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTasksFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileProvider_PendingTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("filters out completed tasks", func(t *testing.T) {
		path := writeTasksFile(t, `[
			{"id": "t1", "title": "Open", "status": "pending"},
			{"id": "t2", "title": "Done", "status": "completed"},
			{"id": "t3", "title": "No status"}
		]`)
		provider := NewFileProvider(path)

		tasks, err := provider.PendingTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "t1", tasks[0].ID)
		assert.Equal(t, "t3", tasks[1].ID)
	})

	t.Run("accepts a wrapped tasks object", func(t *testing.T) {
		path := writeTasksFile(t, `{"tasks": [{"id": "t1"}, {"id": "t2"}]}`)
		provider := NewFileProvider(path)

		tasks, err := provider.PendingTasks(ctx)
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("missing file yields an empty list", func(t *testing.T) {
		provider := NewFileProvider(filepath.Join(t.TempDir(), "absent.json"))

		tasks, err := provider.PendingTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeTasksFile(t, `not json`)
		provider := NewFileProvider(path)

		_, err := provider.PendingTasks(ctx)
		assert.Error(t, err)
	})
}

func TestFileProvider_TaskByID(t *testing.T) {
	ctx := context.Background()
	path := writeTasksFile(t, `[
		{"id": "t1", "title": "Open", "status": "pending", "estimated_time": 45},
		{"id": "t2", "title": "Done", "status": "completed"}
	]`)
	provider := NewFileProvider(path)

	t.Run("resolves completed tasks too", func(t *testing.T) {
		task, err := provider.TaskByID(ctx, "t2")
		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Equal(t, "Done", task.Title)
	})

	t.Run("unknown id resolves to nil", func(t *testing.T) {
		task, err := provider.TaskByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, task)
	})

	t.Run("fields round-trip", func(t *testing.T) {
		task, err := provider.TaskByID(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Equal(t, 45, task.EstimatedTime)
	})
}
