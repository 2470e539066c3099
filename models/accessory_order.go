package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// LineItem is a product captured at checkout. Name and Price are snapshots
// and never follow later product edits.
type LineItem struct {
	ProductID   primitive.ObjectID `json:"productId" bson:"productId"`
	ProductDbID string             `json:"productDbId" bson:"productDbId"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	SellerID    primitive.ObjectID `json:"sellerId" bson:"sellerId"`
}

type ShippingAddress struct {
	Name    string `json:"name" bson:"name" validate:"required"`
	Address string `json:"address" bson:"address" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	State   string `json:"state" bson:"state" validate:"required"`
	Pincode string `json:"pincode" bson:"pincode" validate:"required,len=6,numeric"`
	Phone   string `json:"phone" bson:"phone" validate:"required,len=10,numeric"`
}

type AccessoryOrder struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID         string             `json:"orderId" bson:"orderId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	Products        []LineItem         `json:"products" bson:"products"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus,omitempty" bson:"paymentStatus,omitempty"`
	Status          OrderStatus        `json:"status" bson:"status"`
	OrderDate       time.Time          `json:"orderDate" bson:"orderDate"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CartItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CheckoutRequest struct {
	Products        []CartItem       `json:"products" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required,oneof=cod online"`
}

type OrderSummary struct {
	OrderID     string      `json:"orderId"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
}

type CheckoutResponse struct {
	Message string       `json:"message"`
	Order   OrderSummary `json:"order"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=paid failed"`
}

// SellerOrderView is an order reduced to one seller's line items.
type SellerOrderView struct {
	ID              primitive.ObjectID `json:"_id"`
	OrderID         string             `json:"orderId"`
	UserID          primitive.ObjectID `json:"userId"`
	Products        []LineItem         `json:"products"`
	Subtotal        float64            `json:"totalAmount"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus,omitempty"`
	Status          OrderStatus        `json:"status"`
	OrderDate       time.Time          `json:"orderDate"`
	CreatedAt       time.Time          `json:"createdAt"`
}
