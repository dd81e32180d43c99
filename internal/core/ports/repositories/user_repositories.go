package repositories

import (
	"context"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// CreateUserWithAccount persists a new user and their single account as one
	// atomic unit. Returns apperrors.ErrDuplicate when the email is taken or the
	// user already has an account.
	CreateUserWithAccount(ctx context.Context, user domain.User, account domain.Account) error

	// FindUserByID returns apperrors.ErrNotFound when the user does not exist.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}
