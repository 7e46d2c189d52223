package models

import (
	"fmt"
	"math"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
)

// PaymentMethod records how an order was settled
type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "wallet"
	PaymentCard   PaymentMethod = "card"
)

// Order represents a placed order
type Order struct {
	ID            int           `json:"id" db:"id"`
	UserID        int           `json:"user_id" db:"user_id"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	Items []OrderItem `json:"items,omitempty"`

	// Filled by the admin listing join
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// OrderItem is an immutable price snapshot of one cart line.
// ProductID is nil once the product has been deleted.
type OrderItem struct {
	ID          int     `json:"id" db:"id"`
	OrderID     int     `json:"order_id" db:"order_id"`
	ProductID   *int    `json:"product_id,omitempty" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Price       float64 `json:"price" db:"price"`
}

// OrderCreateRequest represents the data needed to create a new order
type OrderCreateRequest struct {
	UserID        int
	Status        OrderStatus
	PaymentMethod PaymentMethod
	Items         []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID   int
	ProductName string
	Quantity    int
	Price       float64
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Number is the human facing order reference, e.g. ORD-20240101-000042.
func (o *Order) Number() string {
	return fmt.Sprintf("ORD-%s-%06d", o.CreatedAt.Format("20060102"), o.ID)
}

// ItemsTotal sums the item subtotals.
func (o *Order) ItemsTotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// Total sums the requested items.
func (req *OrderCreateRequest) Total() float64 {
	total := 0.0
	for _, item := range req.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Validate validates the order request
func (req *OrderCreateRequest) Validate() error {
	if req.UserID <= 0 {
		return NewValidationError("user_id", "user is required")
	}
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	switch req.PaymentMethod {
	case PaymentWallet, PaymentCard:
	default:
		return NewValidationError("payment_method", fmt.Sprintf("unknown payment method %q", req.PaymentMethod))
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return NewValidationError("quantity", "quantity must be at least 1")
		}
		if item.Price < 0 || math.IsNaN(item.Price) {
			return NewValidationError("price", "price cannot be negative")
		}
	}
	return nil
}
