package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBus writes every event to a single Kafka topic keyed by room, so all
// events of one room land on the same partition in order.
type KafkaBus struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewKafkaBus(brokers []string, topic string, logger *zap.Logger) *KafkaBus {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
	}
	logger.Info("Kafka event bus initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &KafkaBus{writer: w, topic: topic, logger: logger}
}

func (b *KafkaBus) Publish(ctx context.Context, key string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s failed: %w", b.topic, err)
	}
	return nil
}

func (b *KafkaBus) Close() error {
	b.logger.Info("Closing Kafka event bus", zap.String("topic", b.topic))
	return b.writer.Close()
}
