package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Monetary values are persisted as int64 minor units (cents for a 2-decimal
// currency). Decimal arithmetic is only used transiently for quantity × price ×
// rate math; the moment an amount becomes a ledger fact it is an integer.

// ToMinorUnits converts a major-unit decimal amount into minor units exactly.
// It fails if the amount carries more precision than the currency allows.
func ToMinorUnits(amount decimal.Decimal, decimals int32) (int64, error) {
	scaled := amount.Shift(decimals)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s is not representable in minor units at %d decimals", amount.String(), decimals)
	}
	return scaled.IntPart(), nil
}

// RoundToMinorUnits converts a major-unit decimal amount into minor units,
// rounding half away from zero. Used for computed values (quantity × unit price,
// tax) where fractional minor units can legitimately arise.
func RoundToMinorUnits(amount decimal.Decimal, decimals int32) int64 {
	return amount.Shift(decimals).Round(0).IntPart()
}

// FromMinorUnits converts minor units back to a major-unit decimal, for display
// and for rate math on already-rounded subtotals.
func FromMinorUnits(minor int64, decimals int32) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-decimals)
}
