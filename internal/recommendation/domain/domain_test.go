package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRecord_NormalizedPriority(t *testing.T) {
	tests := []struct {
		name     string
		priority string
		expected string
	}{
		{"missing defaults to normal", "", PriorityNormal},
		{"lowercased", "HIGH", PriorityHigh},
		{"passed through", "critical", PriorityCritical},
		{"unknown values survive", "someday", "someday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := TaskRecord{Priority: tt.priority}
			assert.Equal(t, tt.expected, task.NormalizedPriority())
		})
	}
}

func TestSizeBucket(t *testing.T) {
	assert.Equal(t, SizeSmall, SizeBucket(0))
	assert.Equal(t, SizeSmall, SizeBucket(29))
	assert.Equal(t, SizeMedium, SizeBucket(30))
	assert.Equal(t, SizeMedium, SizeBucket(119))
	assert.Equal(t, SizeLarge, SizeBucket(120))
	assert.Equal(t, SizeLarge, SizeBucket(600))
}

func TestTimeOfDay(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 9, hour, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, "night", TimeOfDay(at(4)))
	assert.Equal(t, "morning", TimeOfDay(at(5)))
	assert.Equal(t, "morning", TimeOfDay(at(11)))
	assert.Equal(t, "afternoon", TimeOfDay(at(12)))
	assert.Equal(t, "evening", TimeOfDay(at(17)))
	assert.Equal(t, "night", TimeOfDay(at(22)))
}

func TestEstimationAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		estimated int
		actual    int
		expected  float64
	}{
		{"exact estimate", 60, 60, 100},
		{"half over", 60, 90, 50},
		{"half under", 60, 30, 50},
		{"wildly off caps at zero", 30, 600, 0},
		{"no estimate", 0, 45, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimationAccuracy(tt.estimated, tt.actual), 0.001)
		})
	}
}

func TestUserPreference_Values(t *testing.T) {
	t.Run("weight defaults to one", func(t *testing.T) {
		pref := NewUserPreference("alice", PreferenceTag, "backend", 0)
		assert.Equal(t, 1.0, pref.Weight)
	})

	t.Run("list values survive a JSON round-trip", func(t *testing.T) {
		pref := NewUserPreference("alice", PreferenceLearning, []string{"rust", "grpc"}, 0.8)

		data, err := json.Marshal(pref)
		require.NoError(t, err)
		var decoded UserPreference
		require.NoError(t, json.Unmarshal(data, &decoded))

		// json decodes the list as []any; the accessor normalizes it.
		assert.Equal(t, []string{"rust", "grpc"}, decoded.StringSliceValue())
	})

	t.Run("scalar value is not a slice", func(t *testing.T) {
		pref := NewUserPreference("alice", PreferenceTag, "backend", 1)
		assert.Nil(t, pref.StringSliceValue())
		s, ok := pref.StringValue()
		assert.True(t, ok)
		assert.Equal(t, "backend", s)
	})
}

func TestDefaultWorkloadSettings(t *testing.T) {
	settings := DefaultWorkloadSettings("alice")
	assert.Equal(t, "alice", settings.UserID)
	assert.Equal(t, 480, settings.DailyCapacityMinutes)
	assert.Equal(t, 5, settings.MaxConcurrentTasks)
	assert.Equal(t, SizeMedium, settings.PreferredTaskSize)
	assert.Equal(t, 2.0, settings.PriorityWeights[PriorityCritical])
	assert.Equal(t, 0.5, settings.PriorityWeights[PriorityLow])
}

func TestNewCompletionRecorded(t *testing.T) {
	completed := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	record := PerformanceRecord{
		TaskID:            "t1",
		CompletedAt:       completed,
		CompletionMinutes: 45,
		EstimatedMinutes:  60,
		Accuracy:          75,
	}
	event := NewCompletionRecorded("alice", record)

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, "alice", event.UserID)
	assert.Equal(t, "t1", event.TaskID)
	assert.Equal(t, 45, event.CompletionMinutes)
	assert.Equal(t, completed, event.OccurredAt)
	assert.Equal(t, "recommendation.completion.recorded", event.RoutingKey())
}
