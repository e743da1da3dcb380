package pubsub

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
)

// Fanout publishes to a primary broker and mirrors every message to sinks.
// Only primary failures are returned; sink failures are logged.
type Fanout struct {
	primary Broker
	sinks   []Publisher
}

func NewFanout(primary Broker, sinks ...Publisher) *Fanout {
	return &Fanout{primary: primary, sinks: sinks}
}

func (f *Fanout) Publish(ctx context.Context, topic string, payload any) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	for _, s := range f.sinks {
		if err := s.Publish(ctx, topic, data); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("event sink publish failed")
		}
	}
	return f.primary.Publish(ctx, topic, data)
}

func (f *Fanout) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	return f.primary.Subscribe(ctx, topic)
}

// Close closes the primary and every sink that holds a connection
func (f *Fanout) Close() error {
	var errs []error
	for _, p := range append([]Publisher{f.primary}, f.sinks...) {
		if c, ok := p.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
