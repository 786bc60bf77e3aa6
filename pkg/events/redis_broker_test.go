package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBrokerRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	broker := NewRedisBroker(client)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	require.NoError(t, broker.Subscribe(ctx, "test:events", func(ctx context.Context, event Event) error {
		received <- event
		return nil
	}))

	chatID := uuid.New()
	event, err := NewEvent(EventMessageCreated, &chatID, map[string]interface{}{"content": "halo"})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, "test:events", event))

	select {
	case got := <-received:
		assert.Equal(t, EventMessageCreated, got.Type)
		require.NotNil(t, got.ChatID)
		assert.Equal(t, chatID, *got.ChatID)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(got.Payload, &payload))
		assert.Equal(t, "halo", payload["content"])
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived")
	}
}
