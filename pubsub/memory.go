package pubsub

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// MemoryBroker fans messages out to in-process subscribers. A subscriber
// whose buffer is full misses the message rather than blocking publishers.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan []byte]struct{}
	buffer int
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 16
	}
	return &MemoryBroker{
		subs:   make(map[string]map[chan []byte]struct{}),
		buffer: buffer,
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string, payload any) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
			log.Warn().Str("topic", topic).Msg("subscriber buffer full, dropping message")
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	ch := make(chan []byte, b.buffer)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[topic], ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers returns how many listeners topic currently has
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
