package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ingresso-platform/internal/models"

	"github.com/lib/pq"
)

type txKey struct{}

// WithTx runs fn inside a database transaction carried through the context.
// Nested calls join the ambient transaction. Serialization failures,
// deadlocks and lock-wait timeouts surface as ErrTransactionConflict so
// callers can retry the whole operation with fresh reads.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStoreErr("begin transaction", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapStoreErr("commit transaction", err)
	}
	return nil
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryTarget picks the ambient transaction when one is in flight
func queryTarget(ctx context.Context, db *sql.DB) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// wrapStoreErr maps a driver failure onto the error taxonomy while keeping
// the underlying cause in the message.
func wrapStoreErr(op string, err error) error {
	if isRetryable(err) {
		return fmt.Errorf("%w: %s: %v", models.ErrTransactionConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, op, err)
}

// isRetryable reports whether the error is a serialization failure, a
// deadlock or a lock-wait timeout, all safe to retry from scratch.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
