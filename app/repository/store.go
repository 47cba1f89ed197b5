package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Store serializes writers on one order row. Every notification for an order
// runs inside WithOrderLock, so the terminal-status check and the write that
// follows it cannot interleave with another notification for the same order.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// WithOrderLock runs fn inside one transaction holding the order row lock.
// The transaction is rolled back unless fn returns nil, including when fn panics.
func (s *Store) WithOrderLock(ctx context.Context, orderID uint64, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var lockedID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = ? FOR UPDATE`, orderID).Scan(&lockedID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
