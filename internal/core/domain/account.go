package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a user's ledger account.
// Balance is a fixed-point decimal with 2 fractional digits and must never go negative.
// The owning user reference is immutable after creation.
type Account struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
