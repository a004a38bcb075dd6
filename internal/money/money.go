// Package money parses and formats monetary amounts.
//
// Amounts travel as non-negative decimal strings with at most two fractional
// digits. Direction (income or expense) is never carried by the sign.
package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
)

// Amounts are stored as NUMERIC(12,2): ten integer digits at most.
var amountPattern = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)

// Max is the largest amount the store can hold.
var Max = decimal.RequireFromString("9999999999.99")

// ErrInvalidAmount is returned for strings that are not a valid amount.
var ErrInvalidAmount = fmt.Errorf("%w: amount must be a non-negative number up to %s with at most two decimals", apperr.ErrValidation, Max.StringFixed(2))

// Valid reports whether s is a well-formed amount string.
func Valid(s string) bool {
	return amountPattern.MatchString(s)
}

// Parse converts a wire amount into a decimal.
func Parse(s string) (decimal.Decimal, error) {
	if !Valid(s) {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

// InRange reports whether d is non-negative, at most Max and has no more
// than two fractional digits.
func InRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(Max) && d.Equal(d.Round(2))
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent returns part/whole*100 rounded to two places and capped at 100.
// A zero whole yields 0, or 100 when part is positive.
func Percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		if part.IsPositive() {
			return 100
		}

		return 0
	}

	p := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}

	return p.InexactFloat64()
}
