// Package events mirrors notification events to an external bus so other
// systems can observe marketplace activity.
package events

import (
	"context"

	awspkg "github.com/dogworld/backend/pkg/aws"
)

// Bus publishes an opaque payload under a routing key.
type Bus interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// NopBus discards everything.
type NopBus struct{}

func (NopBus) Publish(context.Context, string, []byte) error { return nil }
func (NopBus) Close() error                                  { return nil }

// SNSBus publishes to one SNS topic; the key travels as the "topic" message
// attribute so subscriptions can filter per room.
type SNSBus struct {
	publisher awspkg.SNSPublisher
	topicArn  string
}

func NewSNSBus(publisher awspkg.SNSPublisher, topicArn string) *SNSBus {
	return &SNSBus{publisher: publisher, topicArn: topicArn}
}

func (b *SNSBus) Publish(ctx context.Context, key string, payload []byte) error {
	return b.publisher.Publish(ctx, b.topicArn, payload, map[string]string{"topic": key})
}

func (b *SNSBus) Close() error { return nil }
