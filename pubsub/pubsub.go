// Package pubsub carries order notifications from services to live
// subscribers and to optional external event sinks.
package pubsub

//go:generate mockgen -destination=mock/publisher.go -package=mock food-delivery-graphql/pubsub Publisher

import (
	"context"

	json "github.com/goccy/go-json"
)

const (
	TopicNewPendingOrder = "NEW_PENDING_ORDER"
	TopicNewCookedOrder  = "NEW_COOKED_ORDER"
	TopicNewOrderUpdate  = "NEW_ORDER_UPDATE"
)

// Publisher sends a payload to everyone listening on topic
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Subscriber delivers raw payloads for topic until ctx is cancelled,
// after which the returned channel is closed.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
}

type Broker interface {
	Publisher
	Subscriber
}

// Encode marshals payloads; []byte passes through untouched
func Encode(payload any) ([]byte, error) {
	if b, ok := payload.([]byte); ok {
		return b, nil
	}
	return json.Marshal(payload)
}

// Decode unmarshals a payload received from a Subscriber
func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
