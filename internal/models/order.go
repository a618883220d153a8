package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Order represents one committed checkout. Line items are created with the
// order and never change afterwards.
type Order struct {
	ID          int         `json:"id" db:"id"`
	UserID      int         `json:"user_id" db:"user_id"`
	OrderNumber string      `json:"order_number" db:"order_number"`
	TotalCents  int64       `json:"total_cents" db:"total_cents"`
	Status      OrderStatus `json:"status" db:"status"`
	PixTxID     *string     `json:"pix_txid,omitempty" db:"pix_txid"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem represents one ticket type purchased within an order. The unit
// price is a snapshot of the catalog price at purchase time, not a live
// reference.
type OrderItem struct {
	ID             int   `json:"id" db:"id"`
	OrderID        int   `json:"order_id" db:"order_id"`
	TicketTypeID   int   `json:"ticket_type_id" db:"ticket_type_id"`
	Quantity       int   `json:"quantity" db:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents" db:"unit_price_cents"`
}

// CheckoutItem is one requested (ticket type, quantity) pair. UnitPriceCents
// is advisory from the client and never trusted for the final total.
type CheckoutItem struct {
	TicketTypeID   int   `json:"ticket_type_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
}

// CheckoutRequest represents the caller-facing checkout payload
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
}

// Validate validates the checkout payload shape
func (req *CheckoutRequest) Validate() error {
	if len(req.Items) == 0 {
		return errors.New("checkout requires at least one item")
	}

	for _, item := range req.Items {
		if item.TicketTypeID <= 0 {
			return errors.New("ticket type id is required")
		}
		if item.Quantity <= 0 {
			return errors.New("quantity must be a positive integer")
		}
	}

	return nil
}

// Validate validates the order data
func (o *Order) Validate() error {
	if o.TotalCents < 0 {
		return errors.New("total amount cannot be negative")
	}

	return validateOrderStatus(o.Status)
}

// validateOrderStatus validates an order status
func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderPending, OrderPaid, OrderCancelled:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

// IsPending returns true if the order awaits payment
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderPaid
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderCancelled
}

// CanBePaid returns true if the order can transition to paid
func (o *Order) CanBePaid() bool {
	return o.Status == OrderPending
}

// CanBeCancelled returns true if the order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending
}

// CountsTowardLimit reports whether this order's line items count toward
// the per-identity purchase limit. Pending orders count; cancelling an
// abandoned cart is the only way to release the allowance.
func (o *Order) CountsTowardLimit() bool {
	return o.Status != OrderCancelled
}

// TotalInCurrency returns the order total in the main currency as a float
func (o *Order) TotalInCurrency() float64 {
	return float64(o.TotalCents) / 100.0
}

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// 6-digit random suffix using crypto/rand for better uniqueness
	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		timestamp := now.UnixNano()
		return fmt.Sprintf("ORD-%s-%06d", dateStr, timestamp%1000000)
	}

	return fmt.Sprintf("ORD-%s-%06d", dateStr, randomNum.Int64())
}
