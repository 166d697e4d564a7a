package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	moneyPlaces = 2
	// workingPlaces bounds the precision carried between schedule steps so
	// long schedules do not grow unbounded decimal digits.
	workingPlaces = 10
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -moneyPlaces)
)

func roundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(moneyPlaces) }

func percent(p decimal.Decimal) decimal.Decimal { return p.Div(hundred) }

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseAmount parses a boundary string ("1500", "12.5") into a decimal.
// NaN, Inf and other malformed values are rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// WithinCent reports whether a and b differ by at most one cent.
func WithinCent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(cent)
}
