package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/dogworld/backend/pkg/metrics"
	"go.uber.org/zap"
)

const subscriberBuffer = 256

var ErrHubStopped = errors.New("notification hub stopped")

type delivery struct {
	topic string
	frame []byte
}

// Subscriber receives the frames of the topics it joined.
type Subscriber struct {
	topics []string
	send   chan []byte
}

// Frames is closed when the subscriber is removed from the hub.
func (s *Subscriber) Frames() <-chan []byte { return s.send }

func (s *Subscriber) Topics() []string { return s.topics }

// Hub owns the room membership. All membership changes and deliveries go
// through Run's goroutine.
type Hub struct {
	rooms      map[string]map[*Subscriber]struct{}
	deliveries chan delivery
	register   chan *Subscriber
	unregister chan *Subscriber
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger

	mu      sync.RWMutex
	clients int
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Subscriber]struct{}),
		deliveries: make(chan delivery, subscriberBuffer),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return

		case s := <-h.register:
			for _, topic := range s.topics {
				room, ok := h.rooms[topic]
				if !ok {
					room = make(map[*Subscriber]struct{})
					h.rooms[topic] = room
				}
				room[s] = struct{}{}
			}
			h.setClients(1)

		case s := <-h.unregister:
			h.remove(s)

		case d := <-h.deliveries:
			for s := range h.rooms[d.topic] {
				select {
				case s.send <- d.frame:
				default:
					metrics.NotificationsDropped.Inc()
					h.logger.Debug("Dropping frame for slow subscriber", zap.String("topic", d.topic))
				}
			}
		}
	}
}

func (h *Hub) remove(s *Subscriber) {
	present := false
	for _, topic := range s.topics {
		room := h.rooms[topic]
		if _, ok := room[s]; ok {
			present = true
			delete(room, s)
			if len(room) == 0 {
				delete(h.rooms, topic)
			}
		}
	}
	if present {
		close(s.send)
		h.setClients(-1)
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		for _, room := range h.rooms {
			for s := range room {
				h.remove(s)
			}
		}
	})
}

func (h *Hub) setClients(delta int) {
	h.mu.Lock()
	h.clients += delta
	n := h.clients
	h.mu.Unlock()
	metrics.WebsocketClients.Set(float64(n))
}

// ClientCount returns the number of registered subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients
}

// Subscribe joins a new subscriber to topics.
func (h *Hub) Subscribe(topics ...string) (*Subscriber, error) {
	s := &Subscriber{topics: topics, send: make(chan []byte, subscriberBuffer)}
	select {
	case h.register <- s:
		return s, nil
	case <-h.done:
		return nil, ErrHubStopped
	}
}

// Unsubscribe removes s from every room and closes its frame channel.
func (h *Hub) Unsubscribe(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Deliver queues frame for every subscriber of topic.
func (h *Hub) Deliver(ctx context.Context, topic string, frame []byte) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.deliveries <- delivery{topic: topic, frame: frame}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
