package repositories

import (
	"context"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
)

// AccountRepository defines read operations for accounts. Balance mutation never
// happens here; it is owned exclusively by LedgerRepository.SaveTransaction so a
// mutation can never escape the locked unit of work.
type AccountRepository interface {
	// FindAccountByID returns apperrors.ErrNotFound when the account does not exist.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUserID resolves a user's single account.
	// Returns apperrors.ErrNotFound when the user has no account.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)
}
