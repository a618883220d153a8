package repositories

import (
	"context"
	"database/sql"
	"time"

	"ingresso-platform/internal/models"
)

// TicketTypeRepository handles ticket type data operations
type TicketTypeRepository struct {
	db *sql.DB
}

// NewTicketTypeRepository creates a new ticket type repository
func NewTicketTypeRepository(db *sql.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

// Create inserts a new ticket type
func (r *TicketTypeRepository) Create(ctx context.Context, tt *models.TicketType) error {
	const query = `
		INSERT INTO ticket_types (event_id, name, price_cents, available, per_identity_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now()
	err := queryTarget(ctx, r.db).QueryRowContext(
		ctx, query,
		tt.EventID, tt.Name, tt.PriceCents, tt.Available, tt.PerIdentityLimit, now,
	).Scan(&tt.ID)
	if err != nil {
		return wrapStoreErr("create ticket type", err)
	}

	tt.CreatedAt = now
	return nil
}

// GetByID retrieves a ticket type by ID
func (r *TicketTypeRepository) GetByID(ctx context.Context, id int) (*models.TicketType, error) {
	const query = `
		SELECT id, event_id, name, price_cents, available, per_identity_limit, created_at
		FROM ticket_types
		WHERE id = $1`

	return r.scanTicketType(queryTarget(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetForUpdate retrieves a ticket type under a row lock. Must be called
// inside WithTx: concurrent checkouts for the same ticket type serialize on
// this lock, so the availability and limit reads that follow cannot go
// stale before the decrement.
func (r *TicketTypeRepository) GetForUpdate(ctx context.Context, id int) (*models.TicketType, error) {
	const query = `
		SELECT id, event_id, name, price_cents, available, per_identity_limit, created_at
		FROM ticket_types
		WHERE id = $1
		FOR UPDATE`

	return r.scanTicketType(queryTarget(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *TicketTypeRepository) scanTicketType(row *sql.Row) (*models.TicketType, error) {
	tt := &models.TicketType{}
	err := row.Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.PriceCents,
		&tt.Available,
		&tt.PerIdentityLimit,
		&tt.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUnknownTicketType
		}
		return nil, wrapStoreErr("get ticket type", err)
	}
	return tt, nil
}

// ListByEvent lists ticket types for an event
func (r *TicketTypeRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.TicketType, error) {
	const query = `
		SELECT id, event_id, name, price_cents, available, per_identity_limit, created_at
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY price_cents ASC`

	rows, err := queryTarget(ctx, r.db).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, wrapStoreErr("list ticket types", err)
	}
	defer rows.Close()

	var ticketTypes []*models.TicketType
	for rows.Next() {
		tt := &models.TicketType{}
		err := rows.Scan(
			&tt.ID,
			&tt.EventID,
			&tt.Name,
			&tt.PriceCents,
			&tt.Available,
			&tt.PerIdentityLimit,
			&tt.CreatedAt,
		)
		if err != nil {
			return nil, wrapStoreErr("scan ticket type", err)
		}
		ticketTypes = append(ticketTypes, tt)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list ticket types", err)
	}

	return ticketTypes, nil
}

// DecrementAvailable subtracts quantity from the remaining stock. The
// availability guard in the WHERE clause keeps the row from ever going
// negative even if a caller skipped the locked read.
func (r *TicketTypeRepository) DecrementAvailable(ctx context.Context, id, quantity int) error {
	const query = `
		UPDATE ticket_types
		SET available = available - $2
		WHERE id = $1 AND available >= $2`

	result, err := queryTarget(ctx, r.db).ExecContext(ctx, query, id, quantity)
	if err != nil {
		return wrapStoreErr("decrement ticket type", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapStoreErr("decrement ticket type", err)
	}
	if rows == 0 {
		return &models.CheckoutError{TicketTypeID: id, Err: models.ErrInsufficientInventory}
	}

	return nil
}

// IncrementAvailable returns quantity to the remaining stock (order
// cancellation)
func (r *TicketTypeRepository) IncrementAvailable(ctx context.Context, id, quantity int) error {
	const query = `
		UPDATE ticket_types
		SET available = available + $2
		WHERE id = $1`

	result, err := queryTarget(ctx, r.db).ExecContext(ctx, query, id, quantity)
	if err != nil {
		return wrapStoreErr("increment ticket type", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapStoreErr("increment ticket type", err)
	}
	if rows == 0 {
		return models.ErrUnknownTicketType
	}

	return nil
}
