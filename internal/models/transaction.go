package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType at the persistence layer.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// Transaction represents a transaction row.
// transaction_id is the primary key and doubles as the idempotency key;
// seq is a BIGSERIAL providing deterministic insertion order.
type Transaction struct {
	TransactionID        string          `db:"transaction_id"`
	Seq                  int64           `db:"seq"`
	Type                 TransactionType `db:"type"`
	Amount               decimal.Decimal `db:"amount"`
	SourceAccountID      *string         `db:"source_account_id"`
	DestinationAccountID *string         `db:"destination_account_id"`
	Status               string          `db:"status"`
	CreatedAt            time.Time       `db:"created_at"`
}
