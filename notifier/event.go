// Package notifier fans events out to per-user and per-seller rooms.
// Delivery is best-effort and at-most-once: a subscriber that is offline or
// too slow misses the event.
package notifier

import (
	"context"
	"time"
)

const BroadcastTopic = "broadcast"

// Event types.
const (
	EventNewOrder              = "new-order"
	EventOrderUpdated          = "order-updated"
	EventPaymentUpdated        = "payment-updated"
	EventNewAdoptionRequest    = "new-adoption-request"
	EventAdoptionStatusUpdated = "adoption-status-updated"
	EventNewDogListed          = "new-dog-listed"
	EventNewProductListed      = "new-product-listed"
	EventNewBooking            = "new-booking"
	EventNewPost               = "new-post"
	EventNewComment            = "new-comment"
)

// Event is the JSON frame delivered to subscribers.
type Event struct {
	Type      string      `json:"type"`
	Topic     string      `json:"topic"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func UserTopic(userID string) string   { return "user-" + userID }
func SellerTopic(sellerID string) string { return "seller-" + sellerID }

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType string, data interface{}) error
}
