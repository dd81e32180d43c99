package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// userService handles onboarding. A user and their single account are created
// together; neither exists without the other.
type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates a user and their zero-balance account atomically.
func (s *userService) CreateUser(ctx context.Context, name, email string) (*domain.User, *domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:    uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    user.UserID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.CreateUserWithAccount(ctx, user, account); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User onboarded", slog.String("user_id", user.UserID), slog.String("account_id", account.AccountID))
	return &user, &account, nil
}

// GetUserByID retrieves a user by id.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}
