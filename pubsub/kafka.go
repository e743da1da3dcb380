package pubsub

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaBatchTimeout bounds how long a publish waits for a batch to fill
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaSink forwards notifications to a Kafka topic, keyed by notification topic
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchSize:              1,
			BatchTimeout:           kafkaBatchTimeout,
			RequiredAcks:           kafka.RequireOne,
		},
	}
}

func (s *KafkaSink) Publish(ctx context.Context, topic string, payload any) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(topic),
		Value: data,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// ParseBrokers splits a comma separated broker list, dropping blanks
func ParseBrokers(list string) []string {
	var out []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
