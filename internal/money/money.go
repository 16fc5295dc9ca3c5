// Package money provides exact decimal parsing and arithmetic for monetary
// values. Amounts are shopspring decimals end to end; floating point is never
// used for money.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a currency token that uses '.' as the thousands separator
// and ',' as the decimal separator into an exact decimal.
// "1.234,56" parses to 1234.56 and "10,50" to 10.50.
func Parse(token string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(token, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", token, err)
	}
	return amount, nil
}

// EqualShare divides total into n equal parts using exact decimal division.
// No remainder correction is applied: for totals that do not divide evenly
// (100 into 3) the shares sum to slightly less than the total. Callers that
// display both figures must not assume they reconcile.
func EqualShare(total decimal.Decimal, n int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(n)))
}

// ToleranceBand returns the [min, max] range within the given relative
// tolerance of reference (tolerance 0.05 means ±5%).
func ToleranceBand(reference, tolerance decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	delta := reference.Mul(tolerance)
	return reference.Sub(delta), reference.Add(delta)
}
