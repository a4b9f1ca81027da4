package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher(nil)

	err := publisher.Publish(context.Background(), "recommendation.completion.recorded", []byte(`{"user_id":"alice"}`))
	assert.NoError(t, err)

	assert.NoError(t, publisher.Close())
}
