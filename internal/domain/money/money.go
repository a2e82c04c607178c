// Package money holds the exact-decimal helpers shared by every aggregation.
//
// Amounts are decimal.Decimal end to end; nothing here converts through float64
// except Ratio, whose result is a display percentage.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PercentScale is the number of decimal places kept on every percentage.
const PercentScale = 2

var (
	ErrAmountRequired    = errors.New("amount is required")
	ErrInvalidAmount     = errors.New("invalid amount format")
	ErrAmountNotPositive = errors.New("amount must be greater than 0")
)

var hundred = decimal.NewFromInt(100)

// Ratio returns part/whole*100 rounded half-up to PercentScale places.
// It returns 0 when whole <= 0.
func Ratio(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).DivRound(whole, PercentScale).InexactFloat64()
}

func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

// ParseAmount accepts a plain decimal string with optional thousands separators
// ("1,250,000.50") and requires a strictly positive result.
func ParseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, ErrAmountRequired
	}

	value = strings.ReplaceAll(value, ",", "")
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}
	return amount, nil
}

// FormatFixed2 renders the amount with exactly two decimals, rounding half-up.
func FormatFixed2(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
