package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const progressPlaces = 4

// ComputeCommission is the agent's share of the interest part of one payment.
// Principal and penalty never earn commission.
func ComputeCommission(appliedToInterest, commissionPercentage decimal.Decimal) decimal.Decimal {
	return roundMoney(appliedToInterest.Mul(percent(commissionPercentage)))
}

// CommissionLoan is the loan snapshot a projection is computed from.
type CommissionLoan struct {
	LoanID    string
	Terms     LoanTerms
	TotalPaid decimal.Decimal
	Active    bool
}

type CommissionProjection struct {
	LoanID               string          `json:"loan_id,omitempty"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	TotalInterest        decimal.Decimal `json:"total_interest"`
	FullCommission       decimal.Decimal `json:"full_commission"`
	PaymentProgress      decimal.Decimal `json:"payment_progress"`
	TotalCommission      decimal.Decimal `json:"total_commission"`
	EarnedCommission     decimal.Decimal `json:"earned_commission"`
	ProjectedCommission  decimal.Decimal `json:"projected_commission"`
}

// ProjectLoanCommission splits the commission on a loan's full interest
// stream into the part earned by payments so far and the part still to come.
// Only active loans project anything.
func ProjectLoanCommission(l CommissionLoan, commissionPercentage decimal.Decimal) (CommissionProjection, error) {
	out := CommissionProjection{
		LoanID:               l.LoanID,
		CommissionPercentage: commissionPercentage,
		TotalInterest:        decimal.Zero,
		FullCommission:       decimal.Zero,
		PaymentProgress:      decimal.Zero,
		TotalCommission:      decimal.Zero,
		EarnedCommission:     decimal.Zero,
		ProjectedCommission:  decimal.Zero,
	}
	if commissionPercentage.IsNegative() || commissionPercentage.GreaterThan(hundred) {
		return out, fmt.Errorf("%w: %s", ErrInvalidPercentage, commissionPercentage)
	}
	if l.TotalPaid.IsNegative() {
		return out, fmt.Errorf("%w: negative total paid %s", ErrInvalidAmount, l.TotalPaid)
	}

	emi, n, err := Installment(l.Terms)
	if err != nil {
		return out, err
	}
	totalPayment := emi.Mul(decimal.NewFromInt(int64(n)))
	out.TotalInterest = nonNegative(totalPayment.Sub(l.Terms.Principal))
	out.FullCommission = roundMoney(out.TotalInterest.Mul(percent(commissionPercentage)))

	if totalPayment.IsPositive() {
		progress := l.TotalPaid.Div(totalPayment)
		out.PaymentProgress = minDecimal(progress, decimal.NewFromInt(1)).Round(progressPlaces)
		out.EarnedCommission = roundMoney(out.FullCommission.Mul(minDecimal(progress, decimal.NewFromInt(1))))
	}
	if l.Active {
		out.ProjectedCommission = out.FullCommission.Sub(out.EarnedCommission)
	}
	out.TotalCommission = out.EarnedCommission.Add(out.ProjectedCommission)
	return out, nil
}

type CommissionBreakdown struct {
	TotalCommission     decimal.Decimal        `json:"total_commission"`
	EarnedCommission    decimal.Decimal        `json:"earned_commission"`
	ProjectedCommission decimal.Decimal        `json:"projected_commission"`
	Loans               []CommissionProjection `json:"loans"`
}

// SummarizeCommissions totals per-loan projections.
func SummarizeCommissions(projections []CommissionProjection) CommissionBreakdown {
	out := CommissionBreakdown{
		TotalCommission:     decimal.Zero,
		EarnedCommission:    decimal.Zero,
		ProjectedCommission: decimal.Zero,
		Loans:               make([]CommissionProjection, 0, len(projections)),
	}
	for _, p := range projections {
		out.TotalCommission = out.TotalCommission.Add(p.TotalCommission)
		out.EarnedCommission = out.EarnedCommission.Add(p.EarnedCommission)
		out.ProjectedCommission = out.ProjectedCommission.Add(p.ProjectedCommission)
		out.Loans = append(out.Loans, p)
	}
	return out
}
