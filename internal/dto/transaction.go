package dto

import (
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
)

// DepositRequest defines the payload for crediting a user's account.
// TransactionID is the caller-chosen idempotency key.
type DepositRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid4"`
	UserID        string `json:"userId" binding:"required,uuid4"`
	Amount        string `json:"amount" binding:"required"`
}

// WithdrawRequest defines the payload for debiting a user's account.
type WithdrawRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid4"`
	UserID        string `json:"userId" binding:"required,uuid4"`
	Amount        string `json:"amount" binding:"required"`
}

// TransferRequest defines the payload for moving money between two users.
type TransferRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid4"`
	FromUserID    string `json:"fromUserId" binding:"required,uuid4"`
	ToUserID      string `json:"toUserId" binding:"required,uuid4"`
	Amount        string `json:"amount" binding:"required"`
}

// ListTransactionsParams holds query parameters for transaction history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken" binding:"omitempty"`
}

// TransactionResponse is the API representation of a committed ledger record.
type TransactionResponse struct {
	TransactionID        string    `json:"transactionId"`
	Type                 string    `json:"type"`
	Amount               string    `json:"amount"`
	SourceAccountID      *string   `json:"sourceAccountId,omitempty"`
	DestinationAccountID *string   `json:"destinationAccountId,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"createdAt"`
	Replayed             bool      `json:"replayed"`
}

// BalanceResponse reports a user's current account balance.
type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
}

// ListTransactionsResponse is a page of transaction history, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ConsistencyReportResponse is the API representation of an audit run.
type ConsistencyReportResponse struct {
	TotalBalance     string    `json:"totalBalance"`
	TotalDeposits    string    `json:"totalDeposits"`
	TotalWithdrawals string    `json:"totalWithdrawals"`
	ExpectedBalance  string    `json:"expectedBalance"`
	Drift            string    `json:"drift"`
	NegativeAccounts []string  `json:"negativeAccounts"`
	Balanced         bool      `json:"balanced"`
	CheckedAt        time.Time `json:"checkedAt"`
}

// ToTransactionResponse maps a committed transaction to the API shape.
// replayed marks responses served from a previously committed record.
func ToTransactionResponse(txn *domain.Transaction, replayed bool) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Type:                 string(txn.Type),
		Amount:               txn.Amount.StringFixed(2),
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Status:               string(txn.Status),
		CreatedAt:            txn.CreatedAt,
		Replayed:             replayed,
	}
}

// ToListTransactionsResponse maps a history page to the API shape.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i], false)
	}
	return ListTransactionsResponse{
		Transactions: responses,
		NextToken:    nextToken,
	}
}

// ToConsistencyReportResponse maps an audit report to the API shape.
func ToConsistencyReportResponse(report *domain.ConsistencyReport) ConsistencyReportResponse {
	negatives := report.NegativeAccounts
	if negatives == nil {
		negatives = []string{}
	}
	return ConsistencyReportResponse{
		TotalBalance:     report.TotalBalance.StringFixed(2),
		TotalDeposits:    report.TotalDeposits.StringFixed(2),
		TotalWithdrawals: report.TotalWithdrawals.StringFixed(2),
		ExpectedBalance:  report.ExpectedBalance.StringFixed(2),
		Drift:            report.Drift.StringFixed(2),
		NegativeAccounts: negatives,
		Balanced:         report.Balanced,
		CheckedAt:        report.CheckedAt,
	}
}
