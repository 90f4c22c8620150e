package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

func TestToMinorUnits(t *testing.T) {
	got, err := domain.ToMinorUnits(decimal.RequireFromString("105.00"), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10500), got)

	got, err = domain.ToMinorUnits(decimal.RequireFromString("-0.01"), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)

	got, err = domain.ToMinorUnits(decimal.RequireFromString("250"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got)

	// More precision than the currency carries is an error, not a silent round.
	_, err = domain.ToMinorUnits(decimal.RequireFromString("10.005"), 2)
	assert.Error(t, err)
}

func TestRoundToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{amount: "10.005", want: 1001}, // half away from zero
		{amount: "10.004", want: 1000},
		{amount: "-10.005", want: -1001},
		{amount: "0", want: 0},
		{amount: "99.999", want: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := domain.RoundToMinorUnits(decimal.RequireFromString(tt.amount), 2)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, decimal.RequireFromString("105.00").Equal(domain.FromMinorUnits(10500, 2)))
	assert.True(t, decimal.RequireFromString("-0.01").Equal(domain.FromMinorUnits(-1, 2)))
	assert.True(t, decimal.RequireFromString("250").Equal(domain.FromMinorUnits(250, 0)))
}

func TestAccountType_IsDebitNormal(t *testing.T) {
	assert.True(t, domain.Asset.IsDebitNormal())
	assert.True(t, domain.Expenses.IsDebitNormal())
	assert.False(t, domain.Liability.IsDebitNormal())
	assert.False(t, domain.Equity.IsDebitNormal())
	assert.False(t, domain.Revenue.IsDebitNormal())
}
