package services_test

import (
	"context"
	"testing"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockSettler struct{ mock.Mock }

func (m *mockSettler) ApplyPaymentResult(ctx context.Context, orderID, paymentStatus string) error {
	return m.Called(orderID, paymentStatus).Error(0)
}

func TestPaymentConsumer_HandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{"succeeded", `{"type":"payment_succeeded","order_id":"ACC0001"}`, models.PaymentStatusPaid},
		{"failed", `{"type":"payment_failed","order_id":"ACC0001"}`, models.PaymentStatusFailed},
		{"session failed", `{"type":"checkout_session_failed","order_id":"ACC0001"}`, models.PaymentStatusFailed},
		{"sns envelope", `{"Type":"Notification","Message":"{\"type\":\"payment_succeeded\",\"order_id\":\"ACC0001\"}"}`, models.PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settler := new(mockSettler)
			settler.On("ApplyPaymentResult", "ACC0001", tt.wantStatus).Return(nil)
			c := services.NewPaymentConsumer(nil, settler, zap.NewNop())

			assert.NoError(t, c.HandleMessage(context.Background(), tt.body))
			settler.AssertExpectations(t)
		})
	}
}

func TestPaymentConsumer_IgnoresUnusableMessages(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"type":"payment_succeeded"}`,
		`{"type":"checkout_session_created","order_id":"ACC0001"}`,
		`{"type":"refund_issued","order_id":"ACC0001"}`,
	} {
		settler := new(mockSettler)
		c := services.NewPaymentConsumer(nil, settler, zap.NewNop())

		assert.NoError(t, c.HandleMessage(context.Background(), body), body)
		settler.AssertNotCalled(t, "ApplyPaymentResult", mock.Anything, mock.Anything)
	}
}
