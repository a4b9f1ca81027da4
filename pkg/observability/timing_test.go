package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer(t *testing.T) {
	t.Run("Stop returns elapsed duration", func(t *testing.T) {
		timer := StartTimer("test-op")
		time.Sleep(10 * time.Millisecond)

		duration := timer.Stop()
		assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	})

	t.Run("Stop logs when a logger is attached", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		StartTimer("test-op").WithLogger(logger).Stop()

		output := buf.String()
		assert.Contains(t, output, "operation completed")
		assert.Contains(t, output, "operation=test-op")
		assert.Contains(t, output, "duration_ms")
	})

	t.Run("StopWithError logs at error level on failure", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		StartTimer("test-op").WithLogger(logger).StopWithError(errors.New("boom"))

		output := buf.String()
		assert.Contains(t, output, "operation failed")
		assert.Contains(t, output, "error=boom")
	})

	t.Run("StopWithError logs success when error is nil", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		StartTimer("test-op").WithLogger(logger).StopWithError(nil)

		output := buf.String()
		assert.Contains(t, output, "operation completed")
		assert.NotContains(t, output, "error=")
	})

	t.Run("Elapsed does not stop the timer", func(t *testing.T) {
		timer := StartTimer("test-op")
		time.Sleep(5 * time.Millisecond)

		first := timer.Elapsed()
		time.Sleep(5 * time.Millisecond)
		second := timer.Elapsed()

		assert.Greater(t, second, first)
	})
}

func TestTimeOperation(t *testing.T) {
	t.Run("returns nil and logs completion on success", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		called := false
		err := TimeOperation(context.Background(), logger, "test-op", func() error {
			called = true
			return nil
		})

		require.NoError(t, err)
		assert.True(t, called)
		assert.Contains(t, buf.String(), "operation completed")
	})

	t.Run("propagates the function error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		wantErr := errors.New("boom")
		err := TimeOperation(context.Background(), logger, "test-op", func() error {
			return wantErr
		})

		assert.ErrorIs(t, err, wantErr)
		assert.Contains(t, buf.String(), "operation failed")
	})
}

func TestTimeOperationResult(t *testing.T) {
	t.Run("returns the value on success", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		result, err := TimeOperationResult(context.Background(), logger, "test-op", func() (int, error) {
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Contains(t, buf.String(), "operation completed")
	})

	t.Run("returns the zero value with the error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		result, err := TimeOperationResult(context.Background(), logger, "test-op", func() (string, error) {
			return "", errors.New("boom")
		})

		assert.Error(t, err)
		assert.Empty(t, result)
		assert.Contains(t, buf.String(), "operation failed")
	})
}
