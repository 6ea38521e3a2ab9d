package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// BadgeClass maps a status to the CSS class the storefront renders it with
func (s OrderStatus) BadgeClass() string {
	if s.Valid() {
		return string(s)
	}
	return "secondary"
}

// DeliveryMessage is shown under each order in the history page
func (s OrderStatus) DeliveryMessage() string {
	if s == OrderStatusShipped {
		return "Your item has been shipped."
	}
	return "Your item has been delivered."
}

type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type Order struct {
	BaseNoDelete
	OrderNumber      string          `db:"order_number"`
	UserID           uuid.UUID       `db:"user_id"`
	CustomerName     string          `db:"customer_name"`
	CustomerEmail    string          `db:"customer_email"`
	Street           string          `db:"street"`
	City             string          `db:"city"`
	State            string          `db:"state"`
	Pincode          string          `db:"pincode"`
	DeliveryDate     time.Time       `db:"delivery_date"`
	DeliveryTime     string          `db:"delivery_time"`
	PaymentMethod    PaymentMethod   `db:"payment_method"`
	PaymentStatus    PaymentStatus   `db:"payment_status"`
	OrderedItems     string          `db:"ordered_items"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           OrderStatus     `db:"order_status"`
	GatewayOrderID   *string         `db:"gateway_order_id"`
	GatewayPaymentID *string         `db:"gateway_payment_id"`

	Items []*OrderItem `db:"-"`
}

type OrderItem struct {
	BaseSimple
	OrderID   uuid.UUID       `db:"order_id"`
	ProductID *uuid.UUID      `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
	Color     *string         `db:"color"`
	Size      *string         `db:"size"`

	// Joined from products for display
	ProductName     string `db:"-"`
	ProductImageURL string `db:"-"`
}
