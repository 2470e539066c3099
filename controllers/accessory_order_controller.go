package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

// AccessoryOrderController exposes checkout and the order lifecycle.
type AccessoryOrderController struct {
	orderService services.AccessoryOrderService
}

func NewAccessoryOrderController(orderService services.AccessoryOrderService) *AccessoryOrderController {
	return &AccessoryOrderController{orderService: orderService}
}

// Checkout handles POST /api/accessory-orders.
func (oc *AccessoryOrderController) Checkout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.orderService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CheckoutResponse{
		Message: "Order placed successfully",
		Order: models.OrderSummary{
			OrderID:     order.OrderID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
		},
	})
}

// ListUserOrders handles GET /api/accessory-orders/user/orders.
func (oc *AccessoryOrderController) ListUserOrders(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	orders, err := oc.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListSellerOrders handles GET /api/accessory-orders/seller/orders.
func (oc *AccessoryOrderController) ListSellerOrders(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	views, err := oc.orderService.ListSellerOrders(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetOrder handles GET /api/accessory-orders/:id.
func (oc *AccessoryOrderController) GetOrder(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	order, err := oc.orderService.GetUserOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PUT /api/accessory-orders/:id/status.
func (oc *AccessoryOrderController) UpdateStatus(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.orderService.UpdateStatus(c.Request.Context(), sellerID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdatePayment handles PUT /api/accessory-orders/:id/payment.
func (oc *AccessoryOrderController) UpdatePayment(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.orderService.UpdatePaymentStatus(c.Request.Context(), sellerID, c.Param("id"), req.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
