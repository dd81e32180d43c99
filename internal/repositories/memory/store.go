// Package memory provides an in-memory implementation of the repository ports.
// It backs the service-level behavioral tests and mirrors the production
// locking discipline: each account has its own lock, and units of work acquire
// account locks in ascending account-id order.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// lockedAccount pairs an account with its row lock.
type lockedAccount struct {
	mu      sync.Mutex
	account domain.Account
}

// Store is a thread-safe in-memory ledger store.
//
// Lock ordering: account locks are always acquired in ascending account-id
// order, and the store mutex is only ever taken while either holding no
// account locks or after all needed account locks are held. No path nests the
// store mutex around an account lock, so no circular wait is possible.
type Store struct {
	mu            sync.Mutex
	users         map[string]domain.User
	accounts      map[string]*lockedAccount
	accountByUser map[string]string
	transactions  map[string]domain.Transaction
	nextSeq       int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		accounts:      make(map[string]*lockedAccount),
		accountByUser: make(map[string]string),
		transactions:  make(map[string]domain.Transaction),
	}
}

// Provider exposes the store as a full repository set.
func (s *Store) Provider() *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		User:    s,
		Account: s,
		Ledger:  s,
		Audit:   s,
	}
}

var (
	_ portsrepo.UserRepository    = (*Store)(nil)
	_ portsrepo.AccountRepository = (*Store)(nil)
	_ portsrepo.LedgerRepository  = (*Store)(nil)
	_ portsrepo.AuditRepository   = (*Store)(nil)
)

// CreateUserWithAccount stores a user and their account atomically.
func (s *Store) CreateUserWithAccount(ctx context.Context, user domain.User, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
		}
	}
	if _, exists := s.accountByUser[user.UserID]; exists {
		return fmt.Errorf("%w: user %s already has an account", apperrors.ErrDuplicate, user.UserID)
	}

	s.users[user.UserID] = user
	s.accounts[account.AccountID] = &lockedAccount{account: account}
	s.accountByUser[user.UserID] = account.AccountID
	return nil
}

// FindUserByID returns a copy of the stored user.
func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

// FindAccountByID returns a copy of the stored account.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	la, ok := s.accounts[accountID]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	la.mu.Lock()
	defer la.mu.Unlock()
	account := la.account
	return &account, nil
}

// FindAccountByUserID resolves a user's single account.
func (s *Store) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	s.mu.Lock()
	accountID, ok := s.accountByUser[userID]
	var la *lockedAccount
	if ok {
		la = s.accounts[accountID]
	}
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	la.mu.Lock()
	defer la.mu.Unlock()
	account := la.account
	return &account, nil
}

// SaveTransaction applies balance changes and appends the record atomically.
// Implements the same contract as the pgsql ledger repository.
func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) (*domain.Transaction, error) {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	s.mu.Lock()
	locked := make([]*lockedAccount, 0, len(accountIDs))
	for _, accID := range accountIDs {
		la, ok := s.accounts[accID]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accID)
		}
		locked = append(locked, la)
	}
	s.mu.Unlock()

	// Canonical lock order: ascending account id.
	for _, la := range locked {
		la.mu.Lock()
	}
	defer func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].mu.Unlock()
		}
	}()

	// Validate under lock; nothing is applied on rejection.
	newBalances := make([]decimal.Decimal, len(locked))
	for i, la := range locked {
		newBalance := la.account.Balance.Add(balanceChanges[accountIDs[i]])
		if newBalance.IsNegative() {
			return nil, fmt.Errorf("%w: account %s balance %s cannot cover %s",
				apperrors.ErrInsufficientFunds, accountIDs[i], la.account.Balance.StringFixed(2), balanceChanges[accountIDs[i]].Abs().StringFixed(2))
		}
		newBalances[i] = newBalance
	}

	s.mu.Lock()
	if _, exists := s.transactions[txn.TransactionID]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: transaction %s already committed", apperrors.ErrDuplicate, txn.TransactionID)
	}
	s.nextSeq++
	txn.Seq = s.nextSeq
	s.transactions[txn.TransactionID] = txn
	s.mu.Unlock()

	for i, la := range locked {
		la.account.Balance = newBalances[i]
		la.account.UpdatedAt = txn.CreatedAt
	}

	saved := txn
	return &saved, nil
}

// FindTransactionByID looks up a record by idempotency key.
func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// ListTransactionsByAccountID returns records involving the account, newest first.
func (s *Store) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	matching := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if (txn.SourceAccountID != nil && *txn.SourceAccountID == accountID) ||
			(txn.DestinationAccountID != nil && *txn.DestinationAccountID == accountID) {
			matching = append(matching, txn)
		}
	}
	s.mu.Unlock()

	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].CreatedAt.Equal(matching[j].CreatedAt) {
			return matching[i].CreatedAt.After(matching[j].CreatedAt)
		}
		return matching[i].Seq > matching[j].Seq
	})

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		start := 0
		for i, txn := range matching {
			if txn.CreatedAt.Before(lastCreatedAt) || (txn.CreatedAt.Equal(lastCreatedAt) && txn.Seq < lastSeq) {
				start = i
				break
			}
			start = len(matching)
		}
		matching = matching[start:]
	}

	var nextTokenVal *string
	if len(matching) > limit {
		lastTxn := matching[limit-1]
		token := pagination.EncodeToken(lastTxn.CreatedAt, lastTxn.Seq)
		nextTokenVal = &token
		matching = matching[:limit]
	}

	return matching, nextTokenVal, nil
}

// TotalBalance sums all account balances.
func (s *Store) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accounts := s.snapshotAccounts()

	total := decimal.Zero
	for _, la := range accounts {
		la.mu.Lock()
		total = total.Add(la.account.Balance)
		la.mu.Unlock()
	}
	return total, nil
}

// TotalAmountByType sums successful transaction amounts of the given type.
func (s *Store) TotalAmountByType(ctx context.Context, txnType domain.TransactionType) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, txn := range s.transactions {
		if txn.Type == txnType && txn.Status == domain.StatusSuccess {
			total = total.Add(txn.Amount)
		}
	}
	return total, nil
}

// NegativeBalanceAccountIDs returns ids of accounts violating the non-negative invariant.
func (s *Store) NegativeBalanceAccountIDs(ctx context.Context) ([]string, error) {
	accounts := s.snapshotAccounts()

	ids := []string{}
	for _, la := range accounts {
		la.mu.Lock()
		if la.account.Balance.IsNegative() {
			ids = append(ids, la.account.AccountID)
		}
		la.mu.Unlock()
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) snapshotAccounts() []*lockedAccount {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*lockedAccount, 0, len(s.accounts))
	for _, la := range s.accounts {
		accounts = append(accounts, la)
	}
	return accounts
}
