package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents an account row. Balance is NUMERIC(20, 2) in the DB with a
// balance >= 0 check constraint; user_id carries a unique constraint (1:1 with users).
type Account struct {
	AccountID string          `db:"account_id"`
	UserID    string          `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
