package penalty

import (
	"lending-backoffice/internal/engine"

	"github.com/shopspring/decimal"
)

// PenaltyDTO is the penalty view of one loan as of a date. Outstanding is
// what remains after penalty payments already recorded.
type PenaltyDTO struct {
	LoanID      string                `json:"loan_id"`
	Status      string                `json:"status"`
	PenaltyPaid decimal.Decimal       `json:"penalty_paid"`
	Outstanding decimal.Decimal       `json:"outstanding_penalty"`
	Summary     engine.PenaltySummary `json:"summary"`
	Policy      PolicyDTO             `json:"policy"`
}

type PolicyDTO struct {
	MonthlyRatePercent decimal.Decimal    `json:"monthly_rate_percent"`
	DaysInMonth        int                `json:"days_in_month"`
	Attribution        engine.Attribution `json:"attribution"`
}

// SweepResult counts the active loans a sweep touched.
type SweepResult struct {
	AsOf      engine.Date `json:"as_of"`
	Refreshed int         `json:"refreshed"`
	Failed    int         `json:"failed"`
}
