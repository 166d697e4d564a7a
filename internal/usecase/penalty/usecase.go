package penalty

import (
	"context"
	"time"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/payment"
	"lending-backoffice/internal/domain/uow"
	"lending-backoffice/internal/engine"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Usecase struct {
	loans    loan.Repository
	payments payment.Repository
	uow      uow.UnitOfWork
	policy   engine.PenaltyPolicy
	log      zerolog.Logger
	now      func() time.Time
}

func NewUsecase(loans loan.Repository, payments payment.Repository, tx uow.UnitOfWork, policy engine.PenaltyPolicy, log zerolog.Logger) *Usecase {
	return &Usecase{loans: loans, payments: payments, uow: tx, policy: policy, log: log, now: time.Now}
}

func (u *Usecase) asOf(d engine.Date) engine.Date {
	if d.IsZero() {
		return engine.DateOf(u.now().UTC())
	}
	return d
}

// Preview computes the loan's penalties as of asOf without writing anything.
// A zero asOf means today.
func (u *Usecase) Preview(ctx context.Context, tenantID, loanID string, asOf engine.Date) (*PenaltyDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(tenantID) {
		return nil, loan.ErrNotFound
	}
	history, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return u.compute(l, history, u.asOf(asOf))
}

// Refresh stores the penalties accrued as of asOf on the loan.
func (u *Usecase) Refresh(ctx context.Context, tenantID, loanID string, asOf engine.Date) (*PenaltyDTO, error) {
	if u.uow == nil {
		return nil, loan.ErrInvalidTransition
	}
	day := u.asOf(asOf)
	var out *PenaltyDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.OwnedBy(tenantID) {
			return loan.ErrNotFound
		}
		dto, err := u.refresh(ctx, r, l, day)
		if err != nil {
			return err
		}
		out = dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) refresh(ctx context.Context, r uow.Repos, l *loan.Loan, day engine.Date) (*PenaltyDTO, error) {
	history, err := r.Payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	dto, err := u.compute(l, history, day)
	if err != nil {
		return nil, err
	}
	if !l.TotalPenalties.Equal(dto.Summary.TotalPenalties) {
		next := *l
		next.TotalPenalties = dto.Summary.TotalPenalties
		if err := r.Loans.Save(ctx, &next); err != nil {
			return nil, err
		}
	}
	return dto, nil
}

// Sweep refreshes every active loan as of asOf. A failing loan is logged and
// counted; it does not stop the sweep.
func (u *Usecase) Sweep(ctx context.Context, asOf engine.Date) (SweepResult, error) {
	day := u.asOf(asOf)
	res := SweepResult{AsOf: day}
	if u.uow == nil {
		return res, loan.ErrInvalidTransition
	}
	active, err := u.loans.ListByStatus(ctx, loan.StateActive)
	if err != nil {
		return res, err
	}
	for i := range active {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		loanID := active[i].LoanID
		err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
			// the loan may have closed since it was listed
			if l.Status != loan.StateActive {
				return nil
			}
			_, err := u.refresh(ctx, r, l, day)
			return err
		})
		if err != nil {
			res.Failed++
			u.log.Error().Err(err).Str("loan_id", loanID).Msg("penalty refresh failed")
			continue
		}
		res.Refreshed++
	}
	u.log.Info().
		Str("as_of", day.String()).
		Int("refreshed", res.Refreshed).
		Int("failed", res.Failed).
		Msg("penalty sweep done")
	return res, nil
}

func (u *Usecase) compute(l *loan.Loan, history []payment.Payment, day engine.Date) (*PenaltyDTO, error) {
	var schedule []engine.ScheduleItem
	if l.ScheduleFinal() {
		schedule = l.AmortizationSchedule
	}
	summary, err := u.policy.AccrueSchedule(schedule, payment.ToEngine(history), day)
	if err != nil {
		return nil, err
	}
	paid := payment.PenaltyPaid(history)
	outstanding := summary.TotalPenalties.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	return &PenaltyDTO{
		LoanID:      l.LoanID,
		Status:      string(l.Status),
		PenaltyPaid: paid,
		Outstanding: outstanding,
		Summary:     summary,
		Policy: PolicyDTO{
			MonthlyRatePercent: u.policy.MonthlyRatePercent,
			DaysInMonth:        u.policy.DaysInMonth,
			Attribution:        u.policy.Attribution,
		},
	}, nil
}
