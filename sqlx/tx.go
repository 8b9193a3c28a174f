package sqlx

import (
	"context"
	"fmt"
)

// WithTx runs fn inside a transaction. The transaction is committed when fn returns nil and
// rolled back otherwise.
func WithTx(ctx context.Context, db DB, fn func(tx Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// InsertID executes an INSERT and returns the generated id column.
func InsertID(ctx context.Context, ex Execer, query string, args ...any) (int64, error) {
	if ex.Dialect().ReturningID() {
		var id int64
		if err := ex.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
