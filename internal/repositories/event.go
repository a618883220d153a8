package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ingresso-platform/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventSearchFilters represents filters for the public event listing
type EventSearchFilters struct {
	State    string
	City     string
	Category string
	Limit    int
	Offset   int
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	const query = `
		INSERT INTO events (organizer_id, title, description, category, state, city, venue, starts_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	now := time.Now()
	err := queryTarget(ctx, r.db).QueryRowContext(
		ctx, query,
		event.OrganizerID, event.Title, event.Description, event.Category,
		event.State, event.City, event.Venue, event.StartsAt, now,
	).Scan(&event.ID)
	if err != nil {
		return wrapStoreErr("create event", err)
	}

	event.CreatedAt = now
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	const query = `
		SELECT id, organizer_id, title, description, category, state, city, venue, starts_at, created_at
		FROM events
		WHERE id = $1`

	event := &models.Event{}
	err := queryTarget(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.State,
		&event.City,
		&event.Venue,
		&event.StartsAt,
		&event.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, wrapStoreErr("get event", err)
	}

	return event, nil
}

// Search lists events matching the given filters
func (r *EventRepository) Search(ctx context.Context, filters EventSearchFilters) ([]*models.Event, error) {
	query := `
		SELECT id, organizer_id, title, description, category, state, city, venue, starts_at, created_at
		FROM events`

	var conditions []string
	var args []any

	if filters.State != "" {
		args = append(args, strings.ToUpper(filters.State))
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)))
	}
	if filters.City != "" {
		args = append(args, filters.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY starts_at ASC"

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryEvents(ctx, query, args...)
}

// ListByOrganizer lists events owned by an organizer
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int) ([]*models.Event, error) {
	const query = `
		SELECT id, organizer_id, title, description, category, state, city, venue, starts_at, created_at
		FROM events
		WHERE organizer_id = $1
		ORDER BY starts_at ASC`

	return r.queryEvents(ctx, query, organizerID)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := queryTarget(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("list events", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.OrganizerID,
			&event.Title,
			&event.Description,
			&event.Category,
			&event.State,
			&event.City,
			&event.Venue,
			&event.StartsAt,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, wrapStoreErr("scan event", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list events", err)
	}

	return events, nil
}
