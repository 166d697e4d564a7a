package loan

import (
	"errors"
	"time"

	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrPendingLoanExists = errors.New("borrower already has a pending loan")
	ErrInvalidInput      = errors.New("invalid loan input")
)

type State string

const (
	StatePendingApproval State = "pending_approval"
	StateApproved        State = "approved"
	StateActive          State = "active"
	StateClosed          State = "closed"
	StateRejected        State = "rejected"
)

func (s State) Terminal() bool { return s == StateClosed || s == StateRejected }

type Loan struct {
	ID                   uint64                `gorm:"primaryKey;column:id" json:"-"`
	LoanID               string                `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	TenantID             string                `gorm:"size:32;index:idx_loans_tenant_agent" json:"tenant_id"`
	BorrowerID           string                `gorm:"size:32;index:idx_loans_borrower_status" json:"borrower_id"`
	AgentID              string                `gorm:"size:32;index:idx_loans_tenant_agent" json:"agent_id"`
	PrincipalAmount      decimal.Decimal       `gorm:"type:decimal(18,2)" json:"principal_amount"`
	InterestRate         decimal.Decimal       `gorm:"type:decimal(8,4)" json:"interest_rate"`
	TenureMonths         int                   `json:"tenure_months"`
	PaymentFrequency     string                `gorm:"size:16" json:"payment_frequency"`
	CommissionPercentage decimal.Decimal       `gorm:"type:decimal(6,3)" json:"commission_percentage"`
	StartDate            *time.Time            `gorm:"type:date" json:"start_date,omitempty"`
	Status               State                 `gorm:"size:24;default:'pending_approval';index:idx_loans_borrower_status" json:"status"`
	CurrentBalance       decimal.Decimal       `gorm:"type:decimal(18,2)" json:"current_balance"`
	TotalPaid            decimal.Decimal       `gorm:"type:decimal(18,2)" json:"total_paid"`
	TotalPenalties       decimal.Decimal       `gorm:"type:decimal(18,2)" json:"total_penalties"`
	AmortizationSchedule []engine.ScheduleItem `gorm:"serializer:json;type:text" json:"amortization_schedule"`
	ApprovedBy           string                `gorm:"size:32" json:"approved_by,omitempty"`
	ApprovalDate         *time.Time            `json:"approval_date,omitempty"`
	RejectionReason      string                `gorm:"type:text" json:"rejection_reason,omitempty"`
	DisbursedAt          *time.Time            `json:"disbursed_at,omitempty"`
	ClosedAt             *time.Time            `json:"closed_at,omitempty"`
	ClosureReason        string                `gorm:"type:text" json:"closure_reason,omitempty"`
	StatusUpdatedAt      time.Time             `json:"status_updated_at"`
	CreatedAt            time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt        `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Terms is the engine view of the loan's contract.
func (l *Loan) Terms() engine.LoanTerms {
	return engine.LoanTerms{
		Principal:          l.PrincipalAmount,
		MonthlyRatePercent: l.InterestRate,
		TenureMonths:       l.TenureMonths,
		Frequency:          engine.Frequency(l.PaymentFrequency),
		StartDate:          l.Start(),
	}
}

// Start is the contract start date, zero while none is set.
func (l *Loan) Start() engine.Date {
	if l.StartDate == nil {
		return engine.Date{}
	}
	return engine.DateOf(*l.StartDate)
}

// DateColumn is t's calendar date for a nullable date column; a zero t is NULL.
func DateColumn(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := engine.DateOf(t).Time()
	return &d
}

// CommissionSnapshot is the engine view used for commission projection.
func (l *Loan) CommissionSnapshot() engine.CommissionLoan {
	return engine.CommissionLoan{
		LoanID:    l.LoanID,
		Terms:     l.Terms(),
		TotalPaid: l.TotalPaid,
		Active:    l.Status == StateActive,
	}
}

// OwnedBy reports whether the loan belongs to tenantID. Loans of other
// tenants are reported as not found by the use cases.
func (l *Loan) OwnedBy(tenantID string) bool { return l.TenantID == tenantID }

// ScheduleFinal reports whether the stored schedule is the one being repaid.
func (l *Loan) ScheduleFinal() bool {
	return l.Status == StateActive || l.Status == StateClosed
}
