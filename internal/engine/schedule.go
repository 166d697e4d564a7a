package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxTenureMonths caps schedule length (weekly cadence: 2400 installments).
const MaxTenureMonths = 600

// LoanTerms are the inputs that fully determine a schedule.
type LoanTerms struct {
	Principal          decimal.Decimal `json:"principal"`
	MonthlyRatePercent decimal.Decimal `json:"monthly_rate_percent"`
	TenureMonths       int             `json:"tenure_months"`
	Frequency          Frequency       `json:"frequency"`
	StartDate          Date            `json:"start_date"`
}

// ScheduleItem is one installment. Every money field is rounded on its own;
// none of them is derived from the others after rounding.
type ScheduleItem struct {
	PaymentNumber    int             `json:"payment_number"`
	DueDate          Date            `json:"due_date"`
	PrincipalDue     decimal.Decimal `json:"principal_due"`
	InterestDue      decimal.Decimal `json:"interest_due"`
	TotalDue         decimal.Decimal `json:"total_due"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// IsDraft reports terms that are not filled in yet. Drafts schedule to nothing.
func (t LoanTerms) IsDraft() bool {
	return t.Principal.IsZero() || t.TenureMonths == 0
}

func (t LoanTerms) validate() error {
	switch {
	case t.Principal.IsNegative():
		return fmt.Errorf("%w: negative principal %s", ErrInvalidLoanTerms, t.Principal)
	case t.MonthlyRatePercent.IsNegative():
		return fmt.Errorf("%w: negative interest rate %s", ErrInvalidLoanTerms, t.MonthlyRatePercent)
	case t.TenureMonths < 0:
		return fmt.Errorf("%w: negative tenure %d", ErrInvalidLoanTerms, t.TenureMonths)
	case t.TenureMonths > MaxTenureMonths:
		return fmt.Errorf("%w: tenure %d exceeds %d months", ErrInvalidLoanTerms, t.TenureMonths, MaxTenureMonths)
	}
	if _, err := t.Frequency.periodsPerMonth(); err != nil {
		return err
	}
	return nil
}

type annuity struct {
	payment decimal.Decimal // unrounded installment
	rate    decimal.Decimal
	periods int
}

func newAnnuity(t LoanTerms) (annuity, error) {
	n, err := PeriodsFor(t.TenureMonths, t.Frequency)
	if err != nil {
		return annuity{}, err
	}
	r, err := PeriodRate(t.MonthlyRatePercent, t.Frequency)
	if err != nil {
		return annuity{}, err
	}
	periods := decimal.NewFromInt(int64(n))
	// below a cent per period every installment would round to 0.00
	if t.Principal.LessThan(cent.Mul(periods)) {
		return annuity{}, fmt.Errorf("%w: principal %s is below one cent per period over %d periods", ErrInvalidLoanTerms, t.Principal, n)
	}
	if r.IsZero() {
		return annuity{payment: t.Principal.Div(periods), rate: r, periods: n}, nil
	}
	growth := decimal.NewFromInt(1).Add(r).Pow(periods).Round(2 * workingPlaces)
	denom := growth.Sub(decimal.NewFromInt(1))
	if denom.IsZero() {
		return annuity{}, fmt.Errorf("%w: rate %s too small for %d periods", ErrInvalidLoanTerms, r, n)
	}
	emi := t.Principal.Mul(r).Mul(growth).Div(denom)
	return annuity{payment: emi, rate: r, periods: n}, nil
}

// Installment returns the rounded fixed payment and the number of periods.
// Draft terms yield zero and zero.
func Installment(t LoanTerms) (decimal.Decimal, int, error) {
	if err := t.validate(); err != nil {
		return decimal.Zero, 0, err
	}
	if t.IsDraft() {
		return decimal.Zero, 0, nil
	}
	a, err := newAnnuity(t)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return roundMoney(a.payment), a.periods, nil
}

// GenerateSchedule builds the fixed-installment schedule for t. It returns a
// new slice on every call and never mutates its input.
func GenerateSchedule(t LoanTerms) ([]ScheduleItem, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if t.IsDraft() {
		return []ScheduleItem{}, nil
	}
	if t.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidLoanTerms)
	}
	a, err := newAnnuity(t)
	if err != nil {
		return nil, err
	}

	items := make([]ScheduleItem, 0, a.periods)
	total := roundMoney(a.payment)
	balance := t.Principal
	for i := 1; i <= a.periods; i++ {
		interest := balance.Mul(a.rate).Round(workingPlaces)
		principal := a.payment.Sub(interest)
		balance = nonNegative(balance.Sub(principal)).Round(workingPlaces)

		items = append(items, ScheduleItem{
			PaymentNumber:    i,
			DueDate:          t.Frequency.dueDate(t.StartDate, i),
			PrincipalDue:     roundMoney(principal),
			InterestDue:      roundMoney(interest),
			TotalDue:         total,
			RemainingBalance: roundMoney(balance),
		})
	}
	return items, nil
}

// TotalInterest is the interest paid over the full term: installment × n − principal.
func TotalInterest(t LoanTerms) (decimal.Decimal, error) {
	emi, n, err := Installment(t)
	if err != nil || n == 0 {
		return decimal.Zero, err
	}
	return nonNegative(emi.Mul(decimal.NewFromInt(int64(n))).Sub(t.Principal)), nil
}
