package commission

import (
	"context"
	"fmt"
	"strings"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/engine"

	"github.com/rs/zerolog"
)

type Usecase struct {
	loans loan.Repository
	log   zerolog.Logger
}

func NewUsecase(loans loan.Repository, log zerolog.Logger) *Usecase {
	return &Usecase{loans: loans, log: log}
}

// Loan projects the agent commission on one loan at its stored percentage.
func (u *Usecase) Loan(ctx context.Context, tenantID, loanID string) (*engine.CommissionProjection, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(tenantID) {
		return nil, loan.ErrNotFound
	}
	p, err := engine.ProjectLoanCommission(l.CommissionSnapshot(), l.CommissionPercentage)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Agent totals the projections over every loan the agent originated within
// the tenant. Loans that cannot be projected are skipped and logged.
func (u *Usecase) Agent(ctx context.Context, tenantID, agentID string) (*engine.CommissionBreakdown, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("%w: agent id is required", loan.ErrInvalidInput)
	}
	ls, err := u.loans.ListByAgentID(ctx, tenantID, agentID)
	if err != nil {
		return nil, err
	}
	projections := make([]engine.CommissionProjection, 0, len(ls))
	for i := range ls {
		l := &ls[i]
		if l.Status == loan.StateRejected {
			continue
		}
		p, err := engine.ProjectLoanCommission(l.CommissionSnapshot(), l.CommissionPercentage)
		if err != nil {
			u.log.Warn().Err(err).Str("loan_id", l.LoanID).Str("agent_id", agentID).Msg("commission projection skipped")
			continue
		}
		projections = append(projections, p)
	}
	out := engine.SummarizeCommissions(projections)
	return &out, nil
}
