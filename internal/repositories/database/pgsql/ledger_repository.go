package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	"github.com/Maikoeliud/micro-savings-backend/internal/models"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/mapping"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
	lockTimeout time.Duration
}

// newPgxLedgerRepository creates a new repository for ledger transaction data.
func newPgxLedgerRepository(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		lockTimeout:    lockTimeout,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// SaveTransaction applies balance changes and appends the transaction record
// within a single DB transaction.
//
// Locking protocol: all affected account rows are locked with SELECT ... FOR
// UPDATE in ascending account-id order. Two transfers moving money in opposite
// directions between the same pair therefore request locks in the same order
// and cannot deadlock. The record insert runs last so the primary-key
// uniqueness constraint on transaction_id is the authoritative idempotency
// guard: a unique violation rolls back everything and surfaces as ErrDuplicate.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Will be ignored if the transaction is committed successfully.
	defer r.Rollback(ctx, tx)

	if r.lockTimeout > 0 {
		// SET LOCAL scopes the bound to this transaction only. An expired wait
		// rolls back cleanly and surfaces as a retryable ErrLockTimeout.
		setQuery := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, setQuery); err != nil {
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	// Canonical lock order: ascending account id, independent of the semantic
	// source/destination role.
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	lockedBalances, err := r.lockAccountBalances(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	// Validate resulting balances on the exact decimal representation, under lock.
	for _, accID := range accountIDs {
		newBalance := lockedBalances[accID].Add(balanceChanges[accID])
		if newBalance.IsNegative() {
			return nil, fmt.Errorf("%w: account %s balance %s cannot cover %s",
				apperrors.ErrInsufficientFunds, accID, lockedBalances[accID].StringFixed(2), balanceChanges[accID].Abs().StringFixed(2))
		}
	}

	updateQuery := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = $3
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	for _, accID := range accountIDs {
		batch.Queue(updateQuery, accID, balanceChanges[accID], txn.CreatedAt)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to apply balance updates for transaction %s: %w", txn.TransactionID, mapPgError(err))
	}

	modelTxn := mapping.ToModelTransaction(txn)
	insertQuery := `
		INSERT INTO transactions (transaction_id, type, amount, source_account_id, destination_account_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq;
	`
	err = tx.QueryRow(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.Type,
		modelTxn.Amount,
		modelTxn.SourceAccountID,
		modelTxn.DestinationAccountID,
		modelTxn.Status,
		modelTxn.CreatedAt,
	).Scan(&modelTxn.Seq)
	if err != nil {
		mapped := mapPgError(err)
		if errors.Is(mapped, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction %s already committed", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return nil, fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, mapped)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction %s: %w", txn.TransactionID, mapPgError(err))
	}

	saved := mapping.ToDomainTransaction(modelTxn)
	return &saved, nil
}

// lockAccountBalances acquires exclusive row locks on the given accounts and
// returns their current balances. accountIDs must already be sorted ascending.
func (r *PgxLedgerRepository) lockAccountBalances(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT account_id, balance
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", mapPgError(err))
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal, len(accountIDs))
	for rows.Next() {
		var accID string
		var balance decimal.Decimal
		if err := rows.Scan(&accID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		balances[accID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", mapPgError(err))
	}

	if len(balances) != len(accountIDs) {
		missing := make([]string, 0)
		for _, id := range accountIDs {
			if _, found := balances[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not find or lock accounts %v", apperrors.ErrNotFound, missing)
	}

	return balances, nil
}

// FindTransactionByID retrieves a transaction record by its idempotency key.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, seq, type, amount, source_account_id, destination_account_id, status, created_at
		FROM transactions
		WHERE transaction_id = $1;
	`
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID,
		&m.Seq,
		&m.Type,
		&m.Amount,
		&m.SourceAccountID,
		&m.DestinationAccountID,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	domainTxn := mapping.ToDomainTransaction(m)
	return &domainTxn, nil
}

// ListTransactionsByAccountID retrieves a paginated list of transactions where
// the account is source or destination, using token-based cursor pagination.
// Ordering is newest-first by created_at with seq as the deterministic tie-breaker.
func (r *PgxLedgerRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, seq, type, amount, source_account_id, destination_account_id, status, created_at
		FROM transactions
		WHERE (source_account_id = $1 OR destination_account_id = $1)
	`
	orderByClause := `ORDER BY created_at DESC, seq DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastSeq, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}

		// Tuple comparison keeps the cursor stable across equal timestamps.
		cursorClause := `AND (created_at, seq) < ($2, $3)`
		args = append(args, lastCreatedAt, lastSeq)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.Seq,
			&m.Type,
			&m.Amount,
			&m.SourceAccountID,
			&m.DestinationAccountID,
			&m.Status,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		transactions = append(transactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, err)
	}

	var nextTokenVal *string
	results := transactions
	if len(transactions) > limit {
		lastTxn := transactions[limit-1]
		token := pagination.EncodeToken(lastTxn.CreatedAt, lastTxn.Seq)
		nextTokenVal = &token
		results = transactions[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}
