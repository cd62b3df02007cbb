package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

const DefaultPaymentMethod = "cod"

type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is UnitPrice × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ShippingAddress struct {
	FullName    string `json:"fullName" bson:"full_name" validate:"required"`
	Phone       string `json:"phone" bson:"phone" validate:"required"`
	AddressLine string `json:"address" bson:"address" validate:"required"`
	City        string `json:"city" bson:"city" validate:"required"`
	State       string `json:"state" bson:"state" validate:"required"`
	PostalCode  string `json:"postalCode" bson:"postal_code" validate:"required"`
}

// Order is immutable once created except for the two status fields.
type Order struct {
	ID               string          `json:"id"`
	OwnerUserID      string          `json:"user"`
	OwnerEmail       string          `json:"userEmail"`
	OwnerDisplayName string          `json:"userName"`
	Items            []OrderItem     `json:"items"`
	Total            decimal.Decimal `json:"total"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	Status           OrderStatus     `json:"status"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ItemsTotal sums the item subtotals.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
