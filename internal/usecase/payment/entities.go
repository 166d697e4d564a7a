package payment

import (
	"time"

	"lending-backoffice/internal/domain/payment"
	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
)

// RecordPaymentInput posts money against an active loan. When none of the
// Applied* parts is given the amount is split by the allocation waterfall.
type RecordPaymentInput struct {
	TenantID           string           `json:"-"`
	LoanID             string           `json:"-"`
	Amount             decimal.Decimal  `json:"amount"`
	PaymentDate        engine.Date      `json:"payment_date"`
	Type               string           `json:"payment_type"`
	InstallmentNumber  int              `json:"installment_number"`
	AppliedToPrincipal *decimal.Decimal `json:"applied_to_principal"`
	AppliedToInterest  *decimal.Decimal `json:"applied_to_interest"`
	AppliedToPenalty   *decimal.Decimal `json:"applied_to_penalty"`
	ReceivedBy         string           `json:"received_by"`
}

func (in RecordPaymentInput) hasSplit() bool {
	return in.AppliedToPrincipal != nil || in.AppliedToInterest != nil || in.AppliedToPenalty != nil
}

type PaymentDTO struct {
	PaymentID          string          `json:"payment_id"`
	LoanID             string          `json:"loan_id"`
	PaymentDate        engine.Date     `json:"payment_date"`
	Amount             decimal.Decimal `json:"amount"`
	AppliedToPrincipal decimal.Decimal `json:"applied_to_principal"`
	AppliedToInterest  decimal.Decimal `json:"applied_to_interest"`
	AppliedToPenalty   decimal.Decimal `json:"applied_to_penalty"`
	InstallmentNumber  int             `json:"installment_number,omitempty"`
	Type               string          `json:"payment_type"`
	Status             string          `json:"status"`
	Commission         decimal.Decimal `json:"commission"`
	CreatedAt          time.Time       `json:"created_at"`
}

// RecordResult is the stored payment plus the loan balances after it.
type RecordResult struct {
	Payment        PaymentDTO      `json:"payment"`
	LoanStatus     string          `json:"loan_status"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}

type ListResult struct {
	LoanID          string          `json:"loan_id"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Payments        []PaymentDTO    `json:"payments"`
}

func toDTO(loanID string, p *payment.Payment, commissionPct decimal.Decimal) PaymentDTO {
	return PaymentDTO{
		PaymentID:          p.PaymentID,
		LoanID:             loanID,
		PaymentDate:        engine.DateOf(p.PaymentDate),
		Amount:             p.Amount,
		AppliedToPrincipal: p.AppliedToPrincipal,
		AppliedToInterest:  p.AppliedToInterest,
		AppliedToPenalty:   p.AppliedToPenalty,
		InstallmentNumber:  p.InstallmentNumber,
		Type:               string(p.Type),
		Status:             string(p.Status),
		Commission:         engine.ComputeCommission(p.AppliedToInterest, commissionPct),
		CreatedAt:          p.CreatedAt,
	}
}
