package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of money movement.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// TransactionStatus identifies the lifecycle state of a transaction record.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction is the immutable record of one ledger operation.
//
// TransactionID is the caller-supplied idempotency key; exactly one record ever
// exists per key, enforced by the primary key constraint. A record with
// StatusSuccess is proof the balance mutation committed. Seq is the monotonic
// insertion order used to break created-at ties during pagination.
type Transaction struct {
	TransactionID        string            `json:"transactionID"`
	Seq                  int64             `json:"seq"`
	Type                 TransactionType   `json:"type"`
	Amount               decimal.Decimal   `json:"amount"`
	SourceAccountID      *string           `json:"sourceAccountID,omitempty"`      // absent for deposits
	DestinationAccountID *string           `json:"destinationAccountID,omitempty"` // absent for withdrawals
	Status               TransactionStatus `json:"status"`
	CreatedAt            time.Time         `json:"createdAt"`
}
