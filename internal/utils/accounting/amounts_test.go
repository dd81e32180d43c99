package accounting_test

import (
	"testing"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount_Valid(t *testing.T) {
	valid := []string{"0.01", "1", "10.50", "999999.99", "10.500"}
	for _, s := range valid {
		amount := decimal.RequireFromString(s)
		assert.NoError(t, accounting.ValidateAmount(amount), "amount %s should be valid", s)
	}
}

func TestValidateAmount_RejectsNonPositive(t *testing.T) {
	for _, s := range []string{"0", "0.00", "-1", "-0.01"} {
		amount := decimal.RequireFromString(s)
		err := accounting.ValidateAmount(amount)
		require.Error(t, err, "amount %s should be rejected", s)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestValidateAmount_RejectsExcessPrecision(t *testing.T) {
	for _, s := range []string{"0.001", "10.505", "1.999"} {
		amount := decimal.RequireFromString(s)
		err := accounting.ValidateAmount(amount)
		require.Error(t, err, "amount %s should be rejected", s)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := accounting.ParseAmount("10.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("10.5")))

	_, err = accounting.ParseAmount("not-a-number")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = accounting.ParseAmount("10.505")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Exact decimal parsing: values beyond float64 precision survive intact.
	amount, err = accounting.ParseAmount("90071992547409.92")
	require.NoError(t, err)
	assert.Equal(t, "90071992547409.92", amount.StringFixed(2))
}
