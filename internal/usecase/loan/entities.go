package loan

import (
	"time"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	TenantID             string          `json:"-"`
	BorrowerID           string          `json:"borrower_id"`
	AgentID              string          `json:"agent_id"`
	PrincipalAmount      decimal.Decimal `json:"principal_amount"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	TenureMonths         int             `json:"tenure_months"`
	PaymentFrequency     string          `json:"payment_frequency"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	StartDate            engine.Date     `json:"start_date"`
}

type LoanDTO struct {
	LoanID               string          `json:"loan_id"`
	TenantID             string          `json:"tenant_id"`
	BorrowerID           string          `json:"borrower_id"`
	AgentID              string          `json:"agent_id"`
	PrincipalAmount      decimal.Decimal `json:"principal_amount"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	TenureMonths         int             `json:"tenure_months"`
	PaymentFrequency     string          `json:"payment_frequency"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	StartDate            engine.Date     `json:"start_date"`
	Status               string          `json:"status"`
	CurrentBalance       decimal.Decimal `json:"current_balance"`
	TotalPaid            decimal.Decimal `json:"total_paid"`
	TotalPenalties       decimal.Decimal `json:"total_penalties"`
	ApprovedBy           string          `json:"approved_by,omitempty"`
	ApprovalDate         *time.Time      `json:"approval_date,omitempty"`
	RejectionReason      string          `json:"rejection_reason,omitempty"`
	DisbursedAt          *time.Time      `json:"disbursed_at,omitempty"`
	ClosedAt             *time.Time      `json:"closed_at,omitempty"`
	ClosureReason        string          `json:"closure_reason,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ScheduleDTO is either the stored schedule (Final) or a preview computed
// from the current terms.
type ScheduleDTO struct {
	LoanID        string                `json:"loan_id"`
	Status        string                `json:"status"`
	Final         bool                  `json:"final"`
	Installment   decimal.Decimal       `json:"installment_amount"`
	TotalInterest decimal.Decimal       `json:"total_interest"`
	Items         []engine.ScheduleItem `json:"items"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:               l.LoanID,
		TenantID:             l.TenantID,
		BorrowerID:           l.BorrowerID,
		AgentID:              l.AgentID,
		PrincipalAmount:      l.PrincipalAmount,
		InterestRate:         l.InterestRate,
		TenureMonths:         l.TenureMonths,
		PaymentFrequency:     l.PaymentFrequency,
		CommissionPercentage: l.CommissionPercentage,
		StartDate:            l.Start(),
		Status:               string(l.Status),
		CurrentBalance:       l.CurrentBalance,
		TotalPaid:            l.TotalPaid,
		TotalPenalties:       l.TotalPenalties,
		ApprovedBy:           l.ApprovedBy,
		ApprovalDate:         l.ApprovalDate,
		RejectionReason:      l.RejectionReason,
		DisbursedAt:          l.DisbursedAt,
		ClosedAt:             l.ClosedAt,
		ClosureReason:        l.ClosureReason,
		CreatedAt:            l.CreatedAt,
	}
}
