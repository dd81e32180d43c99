package repositories

import (
	"context"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AuditRepository provides the aggregate reads used by the consistency checker.
// These are plain reads outside the money-movement hot path.
type AuditRepository interface {
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	TotalAmountByType(ctx context.Context, txnType domain.TransactionType) (decimal.Decimal, error)
	NegativeBalanceAccountIDs(ctx context.Context) ([]string, error)
}
