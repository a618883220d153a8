package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrUnknownIdentity       = errors.New("unknown identity")
	ErrUnknownTicketType     = errors.New("unknown ticket type")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrLimitExceeded         = errors.New("purchase limit exceeded")
	ErrTransactionConflict   = errors.New("transaction conflict")
	ErrStoreUnavailable      = errors.New("store unavailable")

	ErrUserNotFound    = errors.New("user not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrChargeNotFound  = errors.New("pix charge not found")
	ErrDuplicateEntry  = errors.New("duplicate entry")
	ErrForbidden       = errors.New("forbidden")
	ErrOrderNotPayable = errors.New("order cannot be paid in its current status")
)

// ErrorKind identifies a failure class on the wire. Callers may retry
// KindTransactionConflict with a fresh request; every other kind requires a
// changed request.
type ErrorKind string

const (
	KindUnauthenticated       ErrorKind = "unauthenticated"
	KindInvalidRequest        ErrorKind = "invalid_request"
	KindUnknownIdentity       ErrorKind = "unknown_identity"
	KindUnknownTicketType     ErrorKind = "unknown_ticket_type"
	KindInsufficientInventory ErrorKind = "insufficient_inventory"
	KindLimitExceeded         ErrorKind = "limit_exceeded"
	KindTransactionConflict   ErrorKind = "transaction_conflict"
	KindStoreUnavailable      ErrorKind = "store_unavailable"
	KindNotFound              ErrorKind = "not_found"
	KindForbidden             ErrorKind = "forbidden"
	KindInternal              ErrorKind = "internal"
)

// KindOf maps an error chain to its wire kind.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrUnknownIdentity):
		return KindUnknownIdentity
	case errors.Is(err, ErrUnknownTicketType):
		return KindUnknownTicketType
	case errors.Is(err, ErrInsufficientInventory):
		return KindInsufficientInventory
	case errors.Is(err, ErrLimitExceeded):
		return KindLimitExceeded
	case errors.Is(err, ErrTransactionConflict):
		return KindTransactionConflict
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrChargeNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrOrderNotPayable):
		return KindInvalidRequest
	default:
		return KindInternal
	}
}

// CheckoutError attributes a checkout failure to the ticket type that
// triggered it. The wrapped sentinel determines the wire kind.
type CheckoutError struct {
	TicketTypeID int
	Err          error
}

func (e *CheckoutError) Error() string {
	if e.TicketTypeID == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("ticket type %d: %v", e.TicketTypeID, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}
