package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/middleware"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService implements the money-movement operations.
//
// Per-operation state machine: Received -> Validated -> Committed | Rejected.
// Validation failures are rejected before any lock is taken and persist nothing,
// so a corrected retry with the same idempotency key is allowed to succeed.
// Everything after validation happens inside LedgerRepository.SaveTransaction's
// atomic unit of work.
type ledgerService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// checkReplay is the idempotency fast path: a read that short-circuits work the
// uniqueness constraint would reject anyway. The authoritative guard remains the
// primary key on the transaction record, checked by the final insert.
func (s *ledgerService) checkReplay(ctx context.Context, idempotencyKey string) (*domain.Transaction, error) {
	existing, err := s.ledgerRepo.FindTransactionByID(ctx, idempotencyKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check idempotency key %s: %w", idempotencyKey, err)
	}
	return existing, nil
}

// replayAfterConflict resolves a lost insert race: another request with the same
// key committed first, so the committed record is the result of this one too.
func (s *ledgerService) replayAfterConflict(ctx context.Context, idempotencyKey string) (*domain.Transaction, bool, error) {
	existing, err := s.ledgerRepo.FindTransactionByID(ctx, idempotencyKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load committed record for replayed key %s: %w", idempotencyKey, err)
	}
	return existing, true, nil
}

func validateOperationInput(amount decimal.Decimal, idempotencyKey string) error {
	if idempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key is required", apperrors.ErrValidation)
	}
	return accounting.ValidateAmount(amount)
}

// Deposit credits the user's account. Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOperationInput(amount, idempotencyKey); err != nil {
		return nil, false, err
	}

	if existing, err := s.checkReplay(ctx, idempotencyKey); err != nil {
		return nil, false, err
	} else if existing != nil {
		logger.Info("Deposit already processed, returning original record", slog.String("transaction_id", idempotencyKey))
		return existing, true, nil
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve account for user %s: %w", userID, err)
	}

	txn := domain.Transaction{
		TransactionID:        idempotencyKey,
		Type:                 domain.Deposit,
		Amount:               amount,
		DestinationAccountID: &account.AccountID,
		Status:               domain.StatusSuccess,
		CreatedAt:            time.Now().UTC(),
	}

	saved, err := s.ledgerRepo.SaveTransaction(ctx, txn, map[string]decimal.Decimal{
		account.AccountID: amount,
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		logger.Info("Deposit lost idempotency race, returning committed record", slog.String("transaction_id", idempotencyKey))
		return s.replayAfterConflict(ctx, idempotencyKey)
	}
	if err != nil {
		return nil, false, fmt.Errorf("deposit failed for user %s: %w", userID, err)
	}

	logger.Info("Deposit committed", slog.String("transaction_id", saved.TransactionID), slog.String("amount", amount.StringFixed(2)))
	return saved, false, nil
}

// Withdraw debits the user's account. Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOperationInput(amount, idempotencyKey); err != nil {
		return nil, false, err
	}

	if existing, err := s.checkReplay(ctx, idempotencyKey); err != nil {
		return nil, false, err
	} else if existing != nil {
		logger.Info("Withdrawal already processed, returning original record", slog.String("transaction_id", idempotencyKey))
		return existing, true, nil
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve account for user %s: %w", userID, err)
	}

	txn := domain.Transaction{
		TransactionID:   idempotencyKey,
		Type:            domain.Withdrawal,
		Amount:          amount,
		SourceAccountID: &account.AccountID,
		Status:          domain.StatusSuccess,
		CreatedAt:       time.Now().UTC(),
	}

	// The insufficient-funds check happens under the account lock inside the
	// unit of work, on the exact decimal representation.
	saved, err := s.ledgerRepo.SaveTransaction(ctx, txn, map[string]decimal.Decimal{
		account.AccountID: amount.Neg(),
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		logger.Info("Withdrawal lost idempotency race, returning committed record", slog.String("transaction_id", idempotencyKey))
		return s.replayAfterConflict(ctx, idempotencyKey)
	}
	if err != nil {
		return nil, false, fmt.Errorf("withdrawal failed for user %s: %w", userID, err)
	}

	logger.Info("Withdrawal committed", slog.String("transaction_id", saved.TransactionID), slog.String("amount", amount.StringFixed(2)))
	return saved, false, nil
}

// Transfer moves money between two users' accounts. Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) Transfer(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOperationInput(amount, idempotencyKey); err != nil {
		return nil, false, err
	}
	// Rejected before any lock is taken.
	if fromUserID == toUserID {
		return nil, false, fmt.Errorf("%w: user %s", apperrors.ErrSelfTransfer, fromUserID)
	}

	if existing, err := s.checkReplay(ctx, idempotencyKey); err != nil {
		return nil, false, err
	} else if existing != nil {
		logger.Info("Transfer already processed, returning original record", slog.String("transaction_id", idempotencyKey))
		return existing, true, nil
	}

	fromAccount, err := s.accountRepo.FindAccountByUserID(ctx, fromUserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve source account for user %s: %w", fromUserID, err)
	}
	toAccount, err := s.accountRepo.FindAccountByUserID(ctx, toUserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve destination account for user %s: %w", toUserID, err)
	}

	txn := domain.Transaction{
		TransactionID:        idempotencyKey,
		Type:                 domain.Transfer,
		Amount:               amount,
		SourceAccountID:      &fromAccount.AccountID,
		DestinationAccountID: &toAccount.AccountID,
		Status:               domain.StatusSuccess,
		CreatedAt:            time.Now().UTC(),
	}

	// Debit and credit commit as one atomic unit; the repository locks both
	// accounts in ascending id order regardless of which side is the source.
	saved, err := s.ledgerRepo.SaveTransaction(ctx, txn, map[string]decimal.Decimal{
		fromAccount.AccountID: amount.Neg(),
		toAccount.AccountID:   amount,
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		logger.Info("Transfer lost idempotency race, returning committed record", slog.String("transaction_id", idempotencyKey))
		return s.replayAfterConflict(ctx, idempotencyKey)
	}
	if err != nil {
		return nil, false, fmt.Errorf("transfer from user %s to user %s failed: %w", fromUserID, toUserID, err)
	}

	logger.Info("Transfer committed",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("source_account", fromAccount.AccountID),
		slog.String("destination_account", toAccount.AccountID),
	)
	return saved, false, nil
}

// GetBalance returns the current balance of the user's account.
func (s *ledgerService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve account for user %s: %w", userID, err)
	}
	return account.Balance, nil
}

// ListTransactions returns the user's transaction history, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve account for user %s: %w", userID, err)
	}

	transactions, token, err := s.ledgerRepo.ListTransactionsByAccountID(ctx, account.AccountID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return transactions, token, nil
}
