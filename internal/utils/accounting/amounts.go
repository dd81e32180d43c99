package accounting

import (
	"fmt"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ValidateAmount checks that an amount is strictly positive and carries at most
// 2 fractional digits. Amounts with more precision are rejected, never truncated;
// silent rounding of currency values is a correctness bug.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount.String())
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: amount %s has more than 2 decimal places", apperrors.ErrValidation, amount.String())
	}
	return nil
}

// ParseAmount parses a caller-supplied amount string into an exact decimal and
// validates it per ValidateAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, s)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}
