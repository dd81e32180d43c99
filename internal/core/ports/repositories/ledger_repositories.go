package repositories

import (
	"context"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository owns the atomic unit of work for money movement.
type LedgerRepository interface {
	// SaveTransaction applies the given balance changes and appends the
	// transaction record in one atomic commit. The implementation must:
	//   - acquire exclusive locks on all affected accounts in ascending
	//     account-id order (the canonical lock order),
	//   - reject with apperrors.ErrNotFound if any account is missing,
	//   - reject with apperrors.ErrInsufficientFunds if any resulting balance
	//     would be negative,
	//   - reject with apperrors.ErrDuplicate if the transaction id was already
	//     committed (the authoritative idempotency check),
	//   - reject with apperrors.ErrLockTimeout when a bounded lock wait expires,
	//   - leave balances untouched on any rejection (full rollback, no record
	//     persisted for failed operations).
	// On success it returns the persisted record including its sequence number.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) (*domain.Transaction, error)

	// FindTransactionByID looks up a record by idempotency key.
	// Returns apperrors.ErrNotFound when no record exists.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID returns records where the account is source or
	// destination, newest first (created_at desc, seq desc), with cursor pagination.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
