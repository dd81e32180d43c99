package pgsql

import (
	"context"
	"fmt"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for audit aggregate reads.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{pool: pool}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepository
var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// TotalBalance sums all account balances.
func (r *PgxAuditRepository) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts;`
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account balances: %w", err)
	}
	return total, nil
}

// TotalAmountByType sums successful transaction amounts of the given type.
func (r *PgxAuditRepository) TotalAmountByType(ctx context.Context, txnType domain.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = $1 AND status = $2;`
	if err := r.pool.QueryRow(ctx, query, string(txnType), string(domain.StatusSuccess)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s amounts: %w", txnType, err)
	}
	return total, nil
}

// NegativeBalanceAccountIDs returns ids of accounts whose balance violates the
// non-negative invariant. Should always be empty; any hit is an alarm.
func (r *PgxAuditRepository) NegativeBalanceAccountIDs(ctx context.Context) ([]string, error) {
	query := `SELECT account_id FROM accounts WHERE balance < 0 ORDER BY account_id;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query negative balances: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan negative balance row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating negative balance rows: %w", err)
	}
	return ids, nil
}
