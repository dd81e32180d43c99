package services

import (
	"context"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserSvcFacade exposes user onboarding and lookup.
type UserSvcFacade interface {
	// CreateUser creates a user and their zero-balance account atomically.
	CreateUser(ctx context.Context, name, email string) (*domain.User, *domain.Account, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// LedgerSvcFacade exposes the money-movement operations.
//
// Every mutating operation takes a caller-supplied idempotency key and returns
// the committed record plus a replayed flag: replayed=true means the key was
// already processed and the original record is returned unchanged, with no
// second balance effect.
type LedgerSvcFacade interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error)
	Transfer(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error)
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// AuditSvcFacade exposes the ledger consistency checker.
type AuditSvcFacade interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// ServiceContainer bundles all service facades for injection into handlers.
type ServiceContainer struct {
	User   UserSvcFacade
	Ledger LedgerSvcFacade
	Audit  AuditSvcFacade
}
