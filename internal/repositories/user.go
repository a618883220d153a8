package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingresso-platform/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. The tax id must already be normalized.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (name, tax_id, email, password_hash, organizer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now()
	err := queryTarget(ctx, r.db).QueryRowContext(
		ctx, query,
		user.Name, user.TaxID, user.Email, user.PasswordHash, user.Organizer, now,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateEntry
		}
		return wrapStoreErr("create user", err)
	}

	user.CreatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	const query = `
		SELECT id, name, tax_id, email, password_hash, organizer, created_at
		FROM users
		WHERE id = $1`

	return r.scanUser(queryTarget(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, name, tax_id, email, password_hash, organizer, created_at
		FROM users
		WHERE email = $1`

	return r.scanUser(queryTarget(ctx, r.db).QueryRowContext(ctx, query, email))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.TaxID,
		&user.Email,
		&user.PasswordHash,
		&user.Organizer,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, wrapStoreErr("get user", err)
	}
	return user, nil
}

// Exists reports whether a user id is present
func (r *UserRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := queryTarget(ctx, r.db).
		QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}
