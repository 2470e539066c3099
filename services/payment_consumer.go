package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dogworld/backend/models"
	awspkg "github.com/dogworld/backend/pkg/aws"
	"go.uber.org/zap"
)

// PaymentEvent is published by the payment provider integration.
type PaymentEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
}

// PaymentSettler is the part of the order service the consumer drives.
type PaymentSettler interface {
	ApplyPaymentResult(ctx context.Context, orderID, paymentStatus string) error
}

// PaymentConsumer applies payment results from an SQS queue to accessory orders.
type PaymentConsumer struct {
	consumer *awspkg.SQSConsumer
	orders   PaymentSettler
	logger   *zap.Logger
}

func NewPaymentConsumer(consumer *awspkg.SQSConsumer, orders PaymentSettler, logger *zap.Logger) *PaymentConsumer {
	return &PaymentConsumer{consumer: consumer, orders: orders, logger: logger}
}

// Start polls until ctx is cancelled.
func (c *PaymentConsumer) Start(ctx context.Context) {
	c.logger.Info("Starting payment events consumer")
	err := c.consumer.StartPolling(ctx, c.HandleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error("Payment events polling stopped", zap.Error(err))
	}
}

// HandleMessage processes one queue body. Malformed or irrelevant messages
// return nil so they are deleted rather than redelivered.
func (c *PaymentConsumer) HandleMessage(ctx context.Context, body string) error {
	// SNS fan-out wraps the payload in an envelope.
	var envelope struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		body = envelope.Message
	}

	var evt PaymentEvent
	if err := json.Unmarshal([]byte(body), &evt); err != nil {
		c.logger.Warn("Invalid payment event", zap.Error(err))
		return nil
	}
	if evt.OrderID == "" || evt.Type == "" {
		c.logger.Warn("Payment event missing fields", zap.String("order_id", evt.OrderID), zap.String("type", evt.Type))
		return nil
	}

	var status string
	switch evt.Type {
	case "payment_succeeded":
		status = models.PaymentStatusPaid
	case "payment_failed", "checkout_session_failed":
		status = models.PaymentStatusFailed
	case "checkout_session_created":
		c.logger.Debug("Checkout session created", zap.String("order_id", evt.OrderID))
		return nil
	default:
		c.logger.Warn("Unknown payment event type", zap.String("type", evt.Type))
		return nil
	}

	c.logger.Info("Applying payment result", zap.String("order_id", evt.OrderID), zap.String("payment_status", status))
	return c.orders.ApplyPaymentResult(ctx, evt.OrderID, status)
}
