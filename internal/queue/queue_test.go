package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	body, _ := json.Marshal(map[string]string{"student": "alice"})
	assert.NoError(t, q.Publish(ctx, Message{Type: "absence", Body: body}))

	out, err := q.Consume(ctx)
	assert.NoError(t, err)

	select {
	case msg := <-out:
		assert.Equal(t, "absence", msg.Type)
		assert.JSONEq(t, `{"student":"alice"}`, string(msg.Body))
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestInMemoryPublishHonorsCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, q.Publish(ctx, Message{Type: "absence"}))

	cancel()
	err := q.Publish(ctx, Message{Type: "absence"}) // buffer full, ctx done
	assert.ErrorIs(t, err, context.Canceled)
}
