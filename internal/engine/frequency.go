package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	Monthly   Frequency = "monthly"
	BiMonthly Frequency = "bi-monthly"
	Weekly    Frequency = "weekly"
)

// days between consecutive due dates for the sub-monthly cadences
const (
	biMonthlyDays = 15
	weeklyDays    = 7
)

// ParseFrequency is case-insensitive and never defaults: anything other than
// the three known cadences fails with ErrInvalidFrequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if _, err := f.periodsPerMonth(); err != nil {
		return "", err
	}
	return f, nil
}

func (f Frequency) periodsPerMonth() (int, error) {
	switch f {
	case Monthly:
		return 1, nil
	case BiMonthly:
		return 2, nil
	case Weekly:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

// PeriodsFor returns the number of installments over tenureMonths.
func PeriodsFor(tenureMonths int, f Frequency) (int, error) {
	k, err := f.periodsPerMonth()
	if err != nil {
		return 0, err
	}
	if tenureMonths <= 0 {
		return 0, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidLoanTerms, tenureMonths)
	}
	return tenureMonths * k, nil
}

// PeriodRate converts a monthly percentage into the per-period fraction.
func PeriodRate(monthlyRatePercent decimal.Decimal, f Frequency) (decimal.Decimal, error) {
	k, err := f.periodsPerMonth()
	if err != nil {
		return decimal.Zero, err
	}
	if monthlyRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative interest rate %s", ErrInvalidLoanTerms, monthlyRatePercent)
	}
	return percent(monthlyRatePercent).Div(decimal.NewFromInt(int64(k))), nil
}

// dueDate is the i-th due date counted from start. Monthly dates are derived
// from start rather than the previous due date so month-end clamping does not
// drift (Jan 31, Feb 29, Mar 31 rather than Mar 29).
func (f Frequency) dueDate(start Date, i int) Date {
	switch f {
	case BiMonthly:
		return start.AddDays(biMonthlyDays * i)
	case Weekly:
		return start.AddDays(weeklyDays * i)
	default:
		return start.AddMonths(i)
	}
}
