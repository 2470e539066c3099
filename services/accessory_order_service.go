package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/apperrors"
	awspkg "github.com/dogworld/backend/pkg/aws"
	"github.com/dogworld/backend/pkg/metrics"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxIDAttempts = 3

// AccessoryOrderService owns the storefront order lifecycle: checkout, the
// seller scoped views and the status machine.
type AccessoryOrderService interface {
	Checkout(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest) (*models.AccessoryOrder, error)
	ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error)
	ListSellerOrders(ctx context.Context, sellerID primitive.ObjectID) ([]models.SellerOrderView, error)
	GetUserOrder(ctx context.Context, userID primitive.ObjectID, id string) (*models.AccessoryOrder, error)
	UpdateStatus(ctx context.Context, sellerID primitive.ObjectID, id, status string) (*models.AccessoryOrder, error)
	UpdatePaymentStatus(ctx context.Context, sellerID primitive.ObjectID, id, paymentStatus string) (*models.AccessoryOrder, error)
	// ApplyPaymentResult settles a pending online payment reported by the
	// payment provider. Unknown or already settled orders are ignored.
	ApplyPaymentResult(ctx context.Context, orderID, paymentStatus string) error
}

type accessoryOrderService struct {
	products  repository.ProductRepository
	orders    repository.AccessoryOrderRepository
	ids       IDGenerator
	publisher notifier.Publisher
	cache     ProductCache
	cw        *awspkg.MetricsClient
	logger    *zap.Logger
}

func NewAccessoryOrderService(
	products repository.ProductRepository,
	orders repository.AccessoryOrderRepository,
	ids IDGenerator,
	publisher notifier.Publisher,
	cache ProductCache,
	cw *awspkg.MetricsClient,
	logger *zap.Logger,
) AccessoryOrderService {
	if cache == nil {
		cache = NoopProductCache{}
	}
	return &accessoryOrderService{
		products:  products,
		orders:    orders,
		ids:       ids,
		publisher: publisher,
		cache:     cache,
		cw:        cw,
		logger:    logger,
	}
}

type reservation struct {
	productID primitive.ObjectID
	quantity  int
}

func (s *accessoryOrderService) Checkout(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest) (*models.AccessoryOrder, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	if err := validateStruct(req); err != nil {
		s.rejected(ctx, "invalid")
		return nil, err
	}

	// Every product must exist, be active and have a seller before any stock moves.
	ids := make([]primitive.ObjectID, len(req.Products))
	names := make(map[primitive.ObjectID]string, len(req.Products))
	for i, item := range req.Products {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			s.rejected(ctx, "not_found")
			return nil, apperrors.NotFound(fmt.Sprintf("Product %s not found", item.ProductID))
		}
		product, err := s.products.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !product.IsActive) {
			s.rejected(ctx, "not_found")
			return nil, apperrors.NotFound(fmt.Sprintf("Product %s not found", item.ProductID))
		}
		if err != nil {
			s.rejected(ctx, "error")
			return nil, apperrors.Internal("Failed to load products", err)
		}
		if product.SellerID.IsZero() {
			s.rejected(ctx, "invalid")
			return nil, apperrors.Validation(fmt.Sprintf("Product %s has no seller", product.Name))
		}
		ids[i] = id
		names[id] = product.Name
	}

	reserved := make([]reservation, 0, len(req.Products))
	items := make([]models.LineItem, 0, len(req.Products))
	for i, item := range req.Products {
		product, err := s.products.ReserveStock(ctx, ids[i], item.Quantity)
		if err != nil {
			s.releaseAll(ctx, reserved)
			switch {
			case errors.Is(err, repository.ErrInsufficientStock):
				s.rejected(ctx, "insufficient_stock")
				return nil, apperrors.InsufficientStock(fmt.Sprintf("Insufficient stock for %s", names[ids[i]]))
			case errors.Is(err, repository.ErrNotFound):
				s.rejected(ctx, "not_found")
				return nil, apperrors.NotFound(fmt.Sprintf("Product %s not found", item.ProductID))
			default:
				s.rejected(ctx, "error")
				return nil, apperrors.Internal("Failed to reserve stock", err)
			}
		}
		reserved = append(reserved, reservation{productID: ids[i], quantity: item.Quantity})

		// Name and price come from the same document the decrement applied to.
		items = append(items, models.LineItem{
			ProductID:   product.ID,
			ProductDbID: product.ProductID,
			Name:        product.Name,
			Price:       product.Price,
			Quantity:    item.Quantity,
			SellerID:    product.SellerID,
		})
	}

	total := LineItemsTotal(items)
	if !total.IsPositive() {
		s.releaseAll(ctx, reserved)
		s.rejected(ctx, "invalid")
		return nil, apperrors.Validation("Order total must be greater than zero")
	}

	now := time.Now().UTC()
	order := &models.AccessoryOrder{
		UserID:          userID,
		Products:        items,
		TotalAmount:     total.InexactFloat64(),
		ShippingAddress: *req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		OrderDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.PaymentMethod == models.PaymentMethodOnline {
		order.PaymentStatus = models.PaymentStatusPending
	}

	if err := s.insert(ctx, order); err != nil {
		s.releaseAll(ctx, reserved)
		s.rejected(ctx, "error")
		return nil, apperrors.Internal("Failed to place order", err)
	}

	s.logger.Info("Accessory order placed",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", userID.Hex()),
		zap.Int("items", len(items)),
		zap.Float64("total", order.TotalAmount),
	)
	metrics.CheckoutTotal.WithLabelValues("placed").Inc()
	s.recordCount(awspkg.MetricAccessoryOrdersCreated)
	s.cache.Invalidate(ctx)

	s.notifySellers(ctx, order)
	return order, nil
}

// insert allocates the order identifier and stores the order, retrying with
// a fresh identifier if the previous one is already taken.
func (s *accessoryOrderService) insert(ctx context.Context, order *models.AccessoryOrder) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.OrderID = s.ids.Next(ctx, AccessoryOrderIDs)
		order.ID = primitive.NilObjectID
		if err = s.orders.Create(ctx, order); !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
		s.logger.Warn("Order identifier collision", zap.String("order_id", order.OrderID))
	}
	return err
}

// releaseAll returns reserved stock. It runs even if the request context is
// already cancelled.
func (s *accessoryOrderService) releaseAll(ctx context.Context, reserved []reservation) {
	if len(reserved) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := s.products.ReleaseStock(ctx, r.productID, r.quantity); err != nil {
			s.logger.Error("Failed to release reserved stock",
				zap.String("product_id", r.productID.Hex()),
				zap.Int("quantity", r.quantity),
				zap.Error(err),
			)
			continue
		}
		metrics.StockRollbacks.Inc()
	}
	s.recordCount(awspkg.MetricStockRollback)
	s.logger.Info("Rolled back stock reservations", zap.Int("count", len(reserved)))
}

func (s *accessoryOrderService) rejected(ctx context.Context, outcome string) {
	metrics.CheckoutTotal.WithLabelValues(outcome).Inc()
	if outcome != "error" {
		s.recordCount(awspkg.MetricCheckoutRejected)
	}
}

func (s *accessoryOrderService) recordCount(name string) {
	if !s.cw.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.cw.RecordCount(ctx, name, nil); err != nil {
			s.logger.Debug("CloudWatch metric failed", zap.String("metric", name), zap.Error(err))
		}
	}()
}

// notifySellers sends every seller in the order a view holding only that
// seller's items. Failures never affect the order.
func (s *accessoryOrderService) notifySellers(ctx context.Context, order *models.AccessoryOrder) {
	for _, sellerID := range OrderSellers(order) {
		view := ProjectForSeller(order, sellerID)
		if view == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, notifier.SellerTopic(sellerID.Hex()), notifier.EventNewOrder, view); err != nil {
			s.logger.Warn("Failed to notify seller",
				zap.String("order_id", order.OrderID),
				zap.String("seller_id", sellerID.Hex()),
				zap.Error(err),
			)
		}
	}
}

func (s *accessoryOrderService) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *accessoryOrderService) ListSellerOrders(ctx context.Context, sellerID primitive.ObjectID) ([]models.SellerOrderView, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	views := make([]models.SellerOrderView, 0, len(orders))
	for i := range orders {
		if view := ProjectForSeller(&orders[i], sellerID); view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

func (s *accessoryOrderService) GetUserOrder(ctx context.Context, userID primitive.ObjectID, id string) (*models.AccessoryOrder, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

// find accepts either the document id or the human readable order id.
func (s *accessoryOrderService) find(ctx context.Context, id string) (*models.AccessoryOrder, error) {
	var (
		order *models.AccessoryOrder
		err   error
	)
	if oid, parseErr := primitive.ObjectIDFromHex(id); parseErr == nil {
		order, err = s.orders.FindByID(ctx, oid)
	} else {
		order, err = s.orders.FindByOrderID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch order", err)
	}
	return order, nil
}

func (s *accessoryOrderService) UpdateStatus(ctx context.Context, sellerID primitive.ObjectID, id, status string) (*models.AccessoryOrder, error) {
	to := models.OrderStatus(status)
	if !IsOrderStatus(to) {
		return nil, apperrors.Validation("Invalid status")
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !SellerOwnsLineItem(order, sellerID) {
		return nil, apperrors.Forbidden("You are not authorized to update this order")
	}
	if !CanTransitionOrder(order.Status, to) {
		return nil, apperrors.Validation(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, to))
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, to)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, apperrors.Conflict("Order status changed, please retry")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update order", err)
	}

	if to == models.OrderStatusCancelled {
		s.restock(ctx, updated)
	}

	s.logger.Info("Accessory order status updated",
		zap.String("order_id", updated.OrderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)),
		zap.String("seller_id", sellerID.Hex()),
	)
	s.notifyBuyer(ctx, updated, notifier.EventOrderUpdated)
	return updated, nil
}

// restock returns a cancelled order's quantities to the products.
func (s *accessoryOrderService) restock(ctx context.Context, order *models.AccessoryOrder) {
	ctx = context.WithoutCancel(ctx)
	for _, item := range order.Products {
		if err := s.products.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("Failed to restock cancelled order item",
				zap.String("order_id", order.OrderID),
				zap.String("product_id", item.ProductID.Hex()),
				zap.Error(err),
			)
		}
	}
	s.cache.Invalidate(ctx)
}

func (s *accessoryOrderService) UpdatePaymentStatus(ctx context.Context, sellerID primitive.ObjectID, id, paymentStatus string) (*models.AccessoryOrder, error) {
	if paymentStatus != models.PaymentStatusPaid && paymentStatus != models.PaymentStatusFailed {
		return nil, apperrors.Validation("paymentStatus must be one of: paid, failed")
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !SellerOwnsLineItem(order, sellerID) {
		return nil, apperrors.Forbidden("You are not authorized to update this order")
	}
	if order.PaymentMethod != models.PaymentMethodOnline {
		return nil, apperrors.Validation("Payment status applies only to online orders")
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		return nil, apperrors.Conflict("Payment already " + order.PaymentStatus)
	}
	return s.settlePayment(ctx, order, paymentStatus)
}

func (s *accessoryOrderService) ApplyPaymentResult(ctx context.Context, orderID, paymentStatus string) error {
	order, err := s.find(ctx, orderID)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Kind == apperrors.KindNotFound {
			s.logger.Warn("Payment result for unknown order", zap.String("order_id", orderID))
			return nil
		}
		return err
	}
	if order.PaymentMethod != models.PaymentMethodOnline || order.PaymentStatus != models.PaymentStatusPending {
		s.logger.Info("Payment result ignored",
			zap.String("order_id", orderID),
			zap.String("payment_method", order.PaymentMethod),
			zap.String("payment_status", order.PaymentStatus),
		)
		return nil
	}
	_, err = s.settlePayment(ctx, order, paymentStatus)
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind == apperrors.KindConflict {
		return nil
	}
	return err
}

func (s *accessoryOrderService) settlePayment(ctx context.Context, order *models.AccessoryOrder, paymentStatus string) (*models.AccessoryOrder, error) {
	updated, err := s.orders.UpdatePaymentStatus(ctx, order.ID, paymentStatus)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, apperrors.Conflict("Payment already settled")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update payment status", err)
	}
	s.logger.Info("Payment status updated",
		zap.String("order_id", updated.OrderID),
		zap.String("payment_status", updated.PaymentStatus),
	)
	s.notifyBuyer(ctx, updated, notifier.EventPaymentUpdated)
	return updated, nil
}

func (s *accessoryOrderService) notifyBuyer(ctx context.Context, order *models.AccessoryOrder, eventType string) {
	payload := map[string]interface{}{
		"orderId":       order.OrderID,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
	}
	if err := s.publisher.Publish(ctx, notifier.UserTopic(order.UserID.Hex()), eventType, payload); err != nil {
		s.logger.Warn("Failed to notify buyer", zap.String("order_id", order.OrderID), zap.Error(err))
	}
}
