package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	"github.com/Maikoeliud/micro-savings-backend/internal/models"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE account_id = $1;
	`
	var modelAcc models.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&modelAcc.AccountID,
		&modelAcc.UserID,
		&modelAcc.Balance,
		&modelAcc.CreatedAt,
		&modelAcc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// FindAccountByUserID retrieves a user's single account.
func (r *PgxAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1;
	`
	var modelAcc models.Account
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&modelAcc.AccountID,
		&modelAcc.UserID,
		&modelAcc.Balance,
		&modelAcc.CreatedAt,
		&modelAcc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for user %s: %w", userID, err)
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}
