package repositories

import (
	"context"
	"database/sql"

	"ingresso-platform/internal/models"
)

// CheckoutRepository composes the ticket type and order repositories into
// the single surface the order placement transaction runs against.
type CheckoutRepository struct {
	db             *sql.DB
	ticketTypeRepo *TicketTypeRepository
	orderRepo      *OrderRepository
}

// NewCheckoutRepository creates a new checkout repository
func NewCheckoutRepository(db *sql.DB, ticketTypeRepo *TicketTypeRepository, orderRepo *OrderRepository) *CheckoutRepository {
	return &CheckoutRepository{
		db:             db,
		ticketTypeRepo: ticketTypeRepo,
		orderRepo:      orderRepo,
	}
}

// WithTx runs fn inside one transaction spanning every checkout operation
func (r *CheckoutRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.db, fn)
}

// GetTicketTypeForUpdate loads a ticket type under a row lock
func (r *CheckoutRepository) GetTicketTypeForUpdate(ctx context.Context, id int) (*models.TicketType, error) {
	return r.ticketTypeRepo.GetForUpdate(ctx, id)
}

// SumPurchasedQuantity aggregates a tax id's prior purchases of a ticket type
func (r *CheckoutRepository) SumPurchasedQuantity(ctx context.Context, taxID string, ticketTypeID int) (int, error) {
	return r.orderRepo.SumPurchasedQuantity(ctx, taxID, ticketTypeID)
}

// CreateOrder inserts the order row
func (r *CheckoutRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.orderRepo.Create(ctx, order)
}

// CreateOrderItem inserts one line item
func (r *CheckoutRepository) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	return r.orderRepo.CreateItem(ctx, item)
}

// DecrementAvailable applies the guarded inventory decrement
func (r *CheckoutRepository) DecrementAvailable(ctx context.Context, ticketTypeID, quantity int) error {
	return r.ticketTypeRepo.DecrementAvailable(ctx, ticketTypeID, quantity)
}
