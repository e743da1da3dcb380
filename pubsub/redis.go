package pubsub

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisBroker shares notifications between API replicas through Redis PUBLISH/SUBSCRIBE
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload any) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, topic, data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	ps := b.client.Subscribe(ctx, topic)
	// wait for the subscription confirmation so no message is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
