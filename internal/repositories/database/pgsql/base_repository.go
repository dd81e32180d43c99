package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, errors.Join(apperrors.ErrInternal, err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(apperrors.ErrInternal, err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return errors.Join(apperrors.ErrInternal, err)
	}
	return nil
}

// Postgres error codes this package maps to application errors.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgLockNotAvailable = "55P03"
)

// mapPgError translates driver-level errors into the application error taxonomy
// so callers match on sentinel errors, never on message text.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperrors.ErrDuplicate
	case pgCheckViolation:
		// The accounts.balance >= 0 check backs up the in-transaction funds check.
		return apperrors.ErrInsufficientFunds
	case pgLockNotAvailable:
		return apperrors.ErrLockTimeout
	}
	return err
}
