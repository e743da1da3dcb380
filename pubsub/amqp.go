package pubsub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	amqpRedialAttempts = 3
	amqpRedialBackoff  = 500 * time.Millisecond
)

// publishChannel is the part of *amqp.Channel the sink uses
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpDialer func() (publishChannel, io.Closer, error)

// AMQPSink forwards notifications to a RabbitMQ topic exchange. A closed
// channel is redialled on the next publish.
type AMQPSink struct {
	mu       sync.Mutex
	dial     amqpDialer
	conn     io.Closer
	ch       publishChannel
	exchange string
	backoff  time.Duration
}

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	s := newAMQPSink(exchange, func() (publishChannel, io.Closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to open channel: %w", err)
		}
		if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
		}
		return ch, conn, nil
	})
	if err := s.connect(); err != nil {
		return nil, err
	}
	log.Info().Str("exchange", exchange).Msg("connected to RabbitMQ")
	return s, nil
}

func newAMQPSink(exchange string, dial amqpDialer) *AMQPSink {
	return &AMQPSink{dial: dial, exchange: exchange, backoff: amqpRedialBackoff}
}

// RoutingKey maps NEW_ORDER_UPDATE to new.order.update
func RoutingKey(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), "_", ".")
}

func (s *AMQPSink) Publish(ctx context.Context, topic string, payload any) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil || s.ch.IsClosed() {
		if err := s.redial(ctx); err != nil {
			return err
		}
	}
	err = s.ch.PublishWithContext(ctx, s.exchange, RoutingKey(topic), false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	if err := s.redial(ctx); err != nil {
		return err
	}
	return s.ch.PublishWithContext(ctx, s.exchange, RoutingKey(topic), false, false, msg)
}

// connect replaces the current connection. Callers hold mu, except the constructor.
func (s *AMQPSink) connect() error {
	ch, conn, err := s.dial()
	if err != nil {
		return err
	}
	s.closeLocked()
	s.ch, s.conn = ch, conn
	return nil
}

func (s *AMQPSink) redial(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= amqpRedialAttempts; attempt++ {
		if err = s.connect(); err == nil {
			log.Info().Str("exchange", s.exchange).Int("attempt", attempt).Msg("reconnected to RabbitMQ")
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("RabbitMQ reconnect failed")
		if attempt == amqpRedialAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	return fmt.Errorf("rabbitmq unavailable after %d attempts: %w", amqpRedialAttempts, err)
}

func (s *AMQPSink) closeLocked() error {
	if s.ch != nil {
		_ = s.ch.Close()
		s.ch = nil
	}
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}
