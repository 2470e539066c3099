package services

import (
	"github.com/dogworld/backend/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LineItemsTotal sums price times quantity in decimal arithmetic, rounded to cents.
func LineItemsTotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// OrderSellers lists the distinct sellers of an order in line item order.
func OrderSellers(order *models.AccessoryOrder) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var sellers []primitive.ObjectID
	for _, item := range order.Products {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			sellers = append(sellers, item.SellerID)
		}
	}
	return sellers
}

// ProjectForSeller returns the order reduced to sellerID's line items, with a
// subtotal over just those items. It returns nil when the seller has no items
// in the order. The order itself is not modified.
func ProjectForSeller(order *models.AccessoryOrder, sellerID primitive.ObjectID) *models.SellerOrderView {
	var items []models.LineItem
	for _, item := range order.Products {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return &models.SellerOrderView{
		ID:              order.ID,
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		Products:        items,
		Subtotal:        LineItemsTotal(items).InexactFloat64(),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		Status:          order.Status,
		OrderDate:       order.OrderDate,
		CreatedAt:       order.CreatedAt,
	}
}

// SellerOwnsLineItem is the authorization rule for seller side order updates:
// owning any one item lets the seller change the whole order's status.
func SellerOwnsLineItem(order *models.AccessoryOrder, sellerID primitive.ObjectID) bool {
	for _, item := range order.Products {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}
