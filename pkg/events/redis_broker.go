package events

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// RedisBroker publishes and consumes delta events over Redis pub/sub, so every
// API instance sees changes made by any other instance.
type RedisBroker struct {
	Client *goredis.Client
}

func NewRedisBroker(client *goredis.Client) *RedisBroker {
	return &RedisBroker{Client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.Client.Publish(ctx, channel, data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string, handler Handler) error {
	pubsub := b.Client.Subscribe(ctx, channel)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				_ = handler(ctx, event)
			}
		}
	}()

	return nil
}
