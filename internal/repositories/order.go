package repositories

import (
	"context"
	"database/sql"
	"time"

	"ingresso-platform/internal/models"
)

// OrderRepository handles order and line item data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx runs fn inside a transaction shared by every repository method
// called with the returned context.
func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.db, fn)
}

// Create inserts a new order row and fills the generated ID
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	const query = `
		INSERT INTO orders (user_id, order_number, total_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`

	now := time.Now()
	err := queryTarget(ctx, r.db).QueryRowContext(
		ctx, query,
		order.UserID, order.OrderNumber, order.TotalCents, order.Status, now,
	).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateEntry
		}
		return wrapStoreErr("create order", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

// CreateItem inserts one line item and fills the generated ID
func (r *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	const query = `
		INSERT INTO order_items (order_id, ticket_type_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := queryTarget(ctx, r.db).QueryRowContext(
		ctx, query,
		item.OrderID, item.TicketTypeID, item.Quantity, item.UnitPriceCents,
	).Scan(&item.ID)
	if err != nil {
		return wrapStoreErr("create order item", err)
	}

	return nil
}

// SumPurchasedQuantity returns the cumulative quantity of a ticket type
// already purchased by a tax id across every non-cancelled order, pending
// included. Joining through users on tax_id keeps the cap per person even
// if the same CPF/CNPJ ever maps to more than one account. Call inside the
// checkout transaction so the sum and the decrement see the same snapshot.
func (r *OrderRepository) SumPurchasedQuantity(ctx context.Context, taxID string, ticketTypeID int) (int, error) {
	const query = `
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN users u ON u.id = o.user_id
		WHERE u.tax_id = $1
		  AND oi.ticket_type_id = $2
		  AND o.status <> 'cancelled'`

	var total int
	err := queryTarget(ctx, r.db).QueryRowContext(ctx, query, taxID, ticketTypeID).Scan(&total)
	if err != nil {
		return 0, wrapStoreErr("sum purchased quantity", err)
	}

	return total, nil
}

// GetByID retrieves an order with its line items
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	const query = `
		SELECT id, user_id, order_number, total_cents, status, pix_txid, created_at, updated_at
		FROM orders
		WHERE id = $1`

	order, err := r.scanOrder(queryTarget(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByIDForUpdate retrieves an order under a row lock
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id int) (*models.Order, error) {
	const query = `
		SELECT id, user_id, order_number, total_cents, status, pix_txid, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE`

	order, err := r.scanOrder(queryTarget(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByPixTxID retrieves an order by its PIX charge txid
func (r *OrderRepository) GetByPixTxID(ctx context.Context, txid string) (*models.Order, error) {
	const query = `
		SELECT id, user_id, order_number, total_cents, status, pix_txid, created_at, updated_at
		FROM orders
		WHERE pix_txid = $1`

	order, err := r.scanOrder(queryTarget(ctx, r.db).QueryRowContext(ctx, query, txid))
	if err != nil {
		if err == models.ErrOrderNotFound {
			return nil, models.ErrChargeNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByUser lists a user's orders, newest first, with line items
func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	const query = `
		SELECT id, user_id, order_number, total_cents, status, pix_txid, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := queryTarget(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapStoreErr("list orders", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.TotalCents,
			&order.Status,
			&order.PixTxID,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, wrapStoreErr("scan order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list orders", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// SetPixTxID attaches a PIX charge txid to a pending order
func (r *OrderRepository) SetPixTxID(ctx context.Context, orderID int, txid string) error {
	const query = `
		UPDATE orders
		SET pix_txid = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'`

	result, err := queryTarget(ctx, r.db).ExecContext(ctx, query, orderID, txid, time.Now())
	if err != nil {
		return wrapStoreErr("set pix txid", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapStoreErr("set pix txid", err)
	}
	if rows == 0 {
		return models.ErrOrderNotPayable
	}

	return nil
}

// UpdateStatus transitions an order's status
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	const query = `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1`

	result, err := queryTarget(ctx, r.db).ExecContext(ctx, query, orderID, status, time.Now())
	if err != nil {
		return wrapStoreErr("update order status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapStoreErr("update order status", err)
	}
	if rows == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}

// OrganizerSale is one sold line item joined with its buyer and event
type OrganizerSale struct {
	OrderNumber    string             `json:"order_number"`
	OrderStatus    models.OrderStatus `json:"order_status"`
	EventID        int                `json:"event_id"`
	EventTitle     string             `json:"event_title"`
	TicketTypeName string             `json:"ticket_type_name"`
	BuyerName      string             `json:"buyer_name"`
	Quantity       int                `json:"quantity"`
	UnitPriceCents int64              `json:"unit_price_cents"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ListSalesByOrganizer lists every non-cancelled sold line item across the
// organizer's events, newest first
func (r *OrderRepository) ListSalesByOrganizer(ctx context.Context, organizerID int) ([]*OrganizerSale, error) {
	const query = `
		SELECT o.order_number, o.status, e.id, e.title, tt.name, u.name,
		       oi.quantity, oi.unit_price_cents, o.created_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN users u ON u.id = o.user_id
		JOIN ticket_types tt ON tt.id = oi.ticket_type_id
		JOIN events e ON e.id = tt.event_id
		WHERE e.organizer_id = $1 AND o.status <> 'cancelled'
		ORDER BY o.created_at DESC`

	rows, err := queryTarget(ctx, r.db).QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, wrapStoreErr("list organizer sales", err)
	}
	defer rows.Close()

	var sales []*OrganizerSale
	for rows.Next() {
		sale := &OrganizerSale{}
		err := rows.Scan(
			&sale.OrderNumber,
			&sale.OrderStatus,
			&sale.EventID,
			&sale.EventTitle,
			&sale.TicketTypeName,
			&sale.BuyerName,
			&sale.Quantity,
			&sale.UnitPriceCents,
			&sale.CreatedAt,
		)
		if err != nil {
			return nil, wrapStoreErr("scan organizer sale", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list organizer sales", err)
	}

	return sales, nil
}

func (r *OrderRepository) scanOrder(row *sql.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.TotalCents,
		&order.Status,
		&order.PixTxID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, wrapStoreErr("get order", err)
	}
	return order, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, order *models.Order) error {
	const query = `
		SELECT id, order_id, ticket_type_id, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	rows, err := queryTarget(ctx, r.db).QueryContext(ctx, query, order.ID)
	if err != nil {
		return wrapStoreErr("list order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.TicketTypeID,
			&item.Quantity,
			&item.UnitPriceCents,
		)
		if err != nil {
			return wrapStoreErr("scan order item", err)
		}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}
