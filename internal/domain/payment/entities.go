package payment

import (
	"errors"
	"time"

	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid payment amount")
	ErrLoanNotActive = errors.New("loan is not accepting payments")
)

type Type string

const (
	TypeInstallment Type = "installment"
	TypePenalty     Type = "penalty"
	TypePayoff      Type = "payoff"
)

func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeInstallment, TypePenalty, TypePayoff:
		return t, true
	case "":
		return TypeInstallment, true
	}
	return "", false
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusReversed  Status = "reversed"
)

// Table: payments. LoanID references loans.id.
type Payment struct {
	ID                 uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID          string          `gorm:"column:payment_id;size:36;not null;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID             uint64          `gorm:"column:loan_id;not null;index:idx_payments_loan_date" json:"-"`
	PaymentDate        time.Time       `gorm:"column:payment_date;type:date;not null;index:idx_payments_loan_date" json:"payment_date"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	AppliedToPrincipal decimal.Decimal `gorm:"column:applied_to_principal;type:decimal(18,2)" json:"applied_to_principal"`
	AppliedToInterest  decimal.Decimal `gorm:"column:applied_to_interest;type:decimal(18,2)" json:"applied_to_interest"`
	AppliedToPenalty   decimal.Decimal `gorm:"column:applied_to_penalty;type:decimal(18,2)" json:"applied_to_penalty"`
	InstallmentNumber  int             `gorm:"column:installment_number" json:"installment_number,omitempty"`
	Type               Type            `gorm:"column:payment_type;size:16;not null" json:"payment_type"`
	Status             Status          `gorm:"column:status;size:16;not null;default:'completed'" json:"status"`
	ReceivedBy         string          `gorm:"column:received_by;size:32" json:"received_by,omitempty"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// ToEngine returns the engine view of the completed payments in ps.
func ToEngine(ps []Payment) []engine.Payment {
	out := make([]engine.Payment, 0, len(ps))
	for _, p := range ps {
		if p.Status != StatusCompleted {
			continue
		}
		out = append(out, engine.Payment{
			PaymentDate:        engine.DateOf(p.PaymentDate),
			Amount:             p.Amount,
			AppliedToPrincipal: p.AppliedToPrincipal,
			AppliedToInterest:  p.AppliedToInterest,
			AppliedToPenalty:   p.AppliedToPenalty,
			InstallmentNumber:  p.InstallmentNumber,
		})
	}
	return out
}

// PenaltyPaid sums what completed payments in ps have already put towards penalties.
func PenaltyPaid(ps []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range ps {
		if p.Status == StatusCompleted {
			sum = sum.Add(p.AppliedToPenalty)
		}
	}
	return sum
}
