package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Attribution decides which installment a payment counts towards.
type Attribution string

const (
	// AttributeByInstallment credits a payment to its linked installment.
	// Unlinked payments fill the earliest installments that are still short.
	AttributeByInstallment Attribution = "installment"
	// AttributeByDueDate credits every payment dated on or before an
	// installment's due date to that installment. Kept for compatibility with
	// penalty figures stored before installment linkage existed.
	AttributeByDueDate Attribution = "due_date"
)

func ParseAttribution(s string) (Attribution, error) {
	switch a := Attribution(strings.ToLower(strings.TrimSpace(s))); a {
	case AttributeByInstallment, AttributeByDueDate:
		return a, nil
	case "":
		return AttributeByInstallment, nil
	default:
		return "", fmt.Errorf("%w: unknown attribution %q", ErrInvalidPolicy, s)
	}
}

// PenaltyPolicy holds the fixed late-payment constants.
type PenaltyPolicy struct {
	MonthlyRatePercent decimal.Decimal
	DaysInMonth        int
	Attribution        Attribution
}

func DefaultPenaltyPolicy() PenaltyPolicy {
	return PenaltyPolicy{
		MonthlyRatePercent: decimal.NewFromInt(3),
		DaysInMonth:        30,
		Attribution:        AttributeByInstallment,
	}
}

func (p PenaltyPolicy) Validate() error {
	if p.DaysInMonth <= 0 {
		return fmt.Errorf("%w: days in month must be positive, got %d", ErrInvalidPolicy, p.DaysInMonth)
	}
	if p.MonthlyRatePercent.IsNegative() {
		return fmt.Errorf("%w: negative penalty rate %s", ErrInvalidPolicy, p.MonthlyRatePercent)
	}
	if _, err := ParseAttribution(string(p.Attribution)); err != nil {
		return err
	}
	return nil
}

// DailyRate is the monthly penalty fraction spread over DaysInMonth.
func (p PenaltyPolicy) DailyRate() (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	return percent(p.MonthlyRatePercent).Div(decimal.NewFromInt(int64(p.DaysInMonth))), nil
}

type PenaltyAccrual struct {
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	DaysOverdue   int             `json:"days_overdue"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	IsPastDue     bool            `json:"is_past_due"`
}

// Accrue charges dueAmount × dailyRate × daysOverdue. Nothing accrues on or
// before dueDate.
func (p PenaltyPolicy) Accrue(dueAmount decimal.Decimal, dueDate, asOf Date) (PenaltyAccrual, error) {
	if dueAmount.IsNegative() {
		return PenaltyAccrual{}, fmt.Errorf("%w: negative due amount %s", ErrInvalidAmount, dueAmount)
	}
	rate, err := p.DailyRate()
	if err != nil {
		return PenaltyAccrual{}, err
	}
	days := asOf.DaysSince(dueDate)
	if days <= 0 {
		return PenaltyAccrual{PenaltyAmount: decimal.Zero, DailyRate: rate}, nil
	}
	penalty := dueAmount.Mul(rate).Mul(decimal.NewFromInt(int64(days)))
	return PenaltyAccrual{
		PenaltyAmount: roundMoney(penalty),
		DaysOverdue:   days,
		DailyRate:     rate,
		IsPastDue:     true,
	}, nil
}

// AccruePenalty applies the default policy.
func AccruePenalty(dueAmount decimal.Decimal, dueDate, asOf Date) (PenaltyAccrual, error) {
	return DefaultPenaltyPolicy().Accrue(dueAmount, dueDate, asOf)
}

// Payment is the part of a recorded payment the engine reads.
type Payment struct {
	PaymentDate        Date            `json:"payment_date"`
	Amount             decimal.Decimal `json:"amount"`
	AppliedToPrincipal decimal.Decimal `json:"applied_to_principal"`
	AppliedToInterest  decimal.Decimal `json:"applied_to_interest"`
	AppliedToPenalty   decimal.Decimal `json:"applied_to_penalty"`
	InstallmentNumber  int             `json:"installment_number,omitempty"`
}

// scheduled is the portion that settles installments; penalty payments do not.
func (p Payment) scheduled() decimal.Decimal {
	return p.AppliedToPrincipal.Add(p.AppliedToInterest)
}

type PenaltyRecord struct {
	PaymentNumber int             `json:"payment_number"`
	DueDate       Date            `json:"due_date"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	DaysOverdue   int             `json:"days_overdue"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

type PenaltySummary struct {
	AsOf           Date            `json:"as_of"`
	TotalPenalties decimal.Decimal `json:"total_penalties"`
	TotalOverdue   decimal.Decimal `json:"total_overdue"`
	PerInstallment []PenaltyRecord `json:"per_installment"`
}

// AccrueSchedule computes the penalty view of schedule as of asOf. Only
// installments that are past due and short contribute to the totals.
func (p PenaltyPolicy) AccrueSchedule(schedule []ScheduleItem, payments []Payment, asOf Date) (PenaltySummary, error) {
	out := PenaltySummary{
		AsOf:           asOf,
		TotalPenalties: decimal.Zero,
		TotalOverdue:   decimal.Zero,
		PerInstallment: []PenaltyRecord{},
	}
	if err := p.Validate(); err != nil {
		return out, err
	}
	if len(schedule) == 0 {
		return out, nil
	}

	paid := p.paidPerInstallment(schedule, payments, asOf)
	for i, item := range schedule {
		shortfall := item.TotalDue.Sub(paid[i])
		if !shortfall.IsPositive() {
			continue
		}
		acc, err := p.Accrue(shortfall, item.DueDate, asOf)
		if err != nil {
			return out, err
		}
		if !acc.IsPastDue {
			continue
		}
		out.PerInstallment = append(out.PerInstallment, PenaltyRecord{
			PaymentNumber: item.PaymentNumber,
			DueDate:       item.DueDate,
			AmountDue:     item.TotalDue,
			AmountPaid:    roundMoney(paid[i]),
			DaysOverdue:   acc.DaysOverdue,
			PenaltyAmount: acc.PenaltyAmount,
		})
		out.TotalPenalties = out.TotalPenalties.Add(acc.PenaltyAmount)
		out.TotalOverdue = out.TotalOverdue.Add(roundMoney(shortfall))
	}
	return out, nil
}

// AccrueSchedulePenalties applies the default policy.
func AccrueSchedulePenalties(schedule []ScheduleItem, payments []Payment, asOf Date) (PenaltySummary, error) {
	return DefaultPenaltyPolicy().AccrueSchedule(schedule, payments, asOf)
}

func (p PenaltyPolicy) paidPerInstallment(schedule []ScheduleItem, payments []Payment, asOf Date) []decimal.Decimal {
	if p.Attribution == AttributeByDueDate {
		return paidByDueDate(schedule, payments)
	}
	return paidByInstallment(schedule, payments, asOf)
}

func paidByDueDate(schedule []ScheduleItem, payments []Payment) []decimal.Decimal {
	paid := make([]decimal.Decimal, len(schedule))
	for i, item := range schedule {
		sum := decimal.Zero
		for _, pm := range payments {
			if !pm.PaymentDate.After(item.DueDate) {
				sum = sum.Add(pm.scheduled())
			}
		}
		paid[i] = sum
	}
	return paid
}

func paidByInstallment(schedule []ScheduleItem, payments []Payment, asOf Date) []decimal.Decimal {
	credits := settle(schedule, payments, func(pm Payment) bool { return !pm.PaymentDate.After(asOf) })
	paid := make([]decimal.Decimal, len(credits))
	for i, c := range credits {
		paid[i] = c.paid
	}
	return paid
}
