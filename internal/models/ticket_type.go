package models

import (
	"errors"
	"strings"
	"time"
)

// TicketType represents a purchasable category within an event. Available
// is the remaining quantity and never goes negative; PerIdentityLimit caps
// the cumulative quantity one tax id may ever purchase (0 = unlimited).
type TicketType struct {
	ID               int       `json:"id" db:"id"`
	EventID          int       `json:"event_id" db:"event_id"`
	Name             string    `json:"name" db:"name"`
	PriceCents       int64     `json:"price_cents" db:"price_cents"`
	Available        int       `json:"available" db:"available"`
	PerIdentityLimit int       `json:"per_identity_limit" db:"per_identity_limit"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// TicketTypeCreateRequest represents the data needed to create a ticket type
type TicketTypeCreateRequest struct {
	EventID          int    `json:"event_id"`
	Name             string `json:"name"`
	PriceCents       int64  `json:"price_cents"`
	Quantity         int    `json:"quantity"`
	PerIdentityLimit int    `json:"per_identity_limit"`
}

// Validate validates ticket type creation data
func (req *TicketTypeCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	if err := validateTicketTypeName(req.Name); err != nil {
		return err
	}

	if err := validateTicketTypePrice(req.PriceCents); err != nil {
		return err
	}

	if err := validateTicketTypeQuantity(req.Quantity); err != nil {
		return err
	}

	if req.PerIdentityLimit < 0 {
		return errors.New("per-identity limit cannot be negative")
	}

	return nil
}

// validateTicketTypeName validates a ticket type name
func validateTicketTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("ticket type name is required")
	}

	if len(name) > 100 {
		return errors.New("ticket type name must be less than 100 characters")
	}

	return nil
}

// validateTicketTypePrice validates a ticket type price
func validateTicketTypePrice(priceCents int64) error {
	if priceCents < 0 {
		return errors.New("ticket price cannot be negative")
	}

	// Maximum price of R$10,000 (1,000,000 cents)
	if priceCents > 1000000 {
		return errors.New("ticket price cannot exceed R$10,000")
	}

	return nil
}

// validateTicketTypeQuantity validates a ticket type quantity
func validateTicketTypeQuantity(quantity int) error {
	if quantity <= 0 {
		return errors.New("ticket quantity must be greater than 0")
	}

	// Maximum quantity of 100,000 tickets per type
	if quantity > 100000 {
		return errors.New("ticket quantity cannot exceed 100,000")
	}

	return nil
}

// IsSoldOut returns true if no tickets remain
func (tt *TicketType) IsSoldOut() bool {
	return tt.Available <= 0
}

// HasPurchaseLimit returns true if a per-identity limit is configured
func (tt *TicketType) HasPurchaseLimit() bool {
	return tt.PerIdentityLimit > 0
}

// PriceInCurrency returns the price in the main currency as a float
func (tt *TicketType) PriceInCurrency() float64 {
	return float64(tt.PriceCents) / 100.0
}
