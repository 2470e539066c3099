package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dogworld/backend/events"
	"github.com/dogworld/backend/pkg/metrics"
	"go.uber.org/zap"
)

const mirrorTimeout = 5 * time.Second

// Relay is the Publisher used by the services. It delivers to the local hub
// and mirrors every event to the external bus in the background; bus
// failures are only logged.
type Relay struct {
	hub     *Hub
	bus     events.Bus
	logger  *zap.Logger
	now     func() time.Time
	mirrors sync.WaitGroup
}

func NewRelay(hub *Hub, bus events.Bus, logger *zap.Logger) *Relay {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &Relay{hub: hub, bus: bus, logger: logger, now: time.Now}
}

func (r *Relay) Publish(ctx context.Context, topic, eventType string, data interface{}) error {
	frame, err := json.Marshal(Event{
		Type:      eventType,
		Topic:     topic,
		Data:      data,
		Timestamp: r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	metrics.NotificationsPublished.WithLabelValues(eventType).Inc()

	delivered := r.hub.Deliver(ctx, topic, frame)

	r.mirrors.Add(1)
	go r.mirror(context.WithoutCancel(ctx), topic, eventType, frame)

	return delivered
}

func (r *Relay) mirror(ctx context.Context, topic, eventType string, frame []byte) {
	defer r.mirrors.Done()
	ctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
	defer cancel()

	if err := r.bus.Publish(ctx, topic, frame); err != nil {
		r.logger.Warn("Event bus mirror failed",
			zap.String("topic", topic),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

// Wait blocks until every in-flight bus mirror has finished.
func (r *Relay) Wait() {
	r.mirrors.Wait()
}
