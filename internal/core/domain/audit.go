package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsistencyReport is the result of a ledger audit pass.
//
// The conservation identity under check: the sum of all account balances must
// equal total successful deposits minus total successful withdrawals. Transfers
// move value between accounts and net to zero, so they never appear in the
// identity. Divergence is reported, never corrected.
type ConsistencyReport struct {
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	ExpectedBalance  decimal.Decimal `json:"expectedBalance"`
	Drift            decimal.Decimal `json:"drift"`
	NegativeAccounts []string        `json:"negativeAccounts,omitempty"`
	Balanced         bool            `json:"balanced"`
	CheckedAt        time.Time       `json:"checkedAt"`
}
