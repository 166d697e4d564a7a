package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/uow"
	"lending-backoffice/internal/engine"
	"lending-backoffice/pkg/id"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	zero           = decimal.Zero
	decimalHundred = decimal.NewFromInt(100)
)

type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
	log  zerolog.Logger
	now  func() time.Time
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, log zerolog.Logger) *Usecase {
	return &Usecase{repo: r, uow: tx, log: log, now: time.Now}
}

func (u *Usecase) today() engine.Date { return engine.DateOf(u.now().UTC()) }

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if strings.TrimSpace(in.TenantID) == "" || strings.TrimSpace(in.BorrowerID) == "" || strings.TrimSpace(in.AgentID) == "" {
		return nil, fmt.Errorf("%w: tenant, borrower and agent are required", loan.ErrInvalidInput)
	}
	if !in.PrincipalAmount.IsPositive() || in.TenureMonths <= 0 {
		return nil, fmt.Errorf("%w: principal and tenure must be positive", engine.ErrInvalidLoanTerms)
	}
	if in.CommissionPercentage.IsNegative() || in.CommissionPercentage.GreaterThan(decimalHundred) {
		return nil, fmt.Errorf("%w: %s", engine.ErrInvalidPercentage, in.CommissionPercentage)
	}
	freq, err := engine.ParseFrequency(in.PaymentFrequency)
	if err != nil {
		return nil, err
	}

	terms := engine.LoanTerms{
		Principal:          in.PrincipalAmount,
		MonthlyRatePercent: in.InterestRate,
		TenureMonths:       in.TenureMonths,
		Frequency:          freq,
		StartDate:          in.StartDate,
	}
	if terms.StartDate.IsZero() {
		terms.StartDate = u.today()
	}
	// dry run: the terms must produce a schedule
	if _, err := engine.GenerateSchedule(terms); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	l := &loan.Loan{
		LoanID:               id.NewID32(),
		TenantID:             in.TenantID,
		BorrowerID:           in.BorrowerID,
		AgentID:              in.AgentID,
		PrincipalAmount:      in.PrincipalAmount,
		InterestRate:         in.InterestRate,
		TenureMonths:         in.TenureMonths,
		PaymentFrequency:     string(freq),
		CommissionPercentage: in.CommissionPercentage,
		StartDate:            loan.DateColumn(in.StartDate.Time()),
		Status:               loan.StatePendingApproval,
		CurrentBalance:       zero,
		TotalPaid:            zero,
		TotalPenalties:       zero,
		StatusUpdatedAt:      now,
	}

	create := func(repo loan.Repository) error {
		// Block if the borrower already has a loan waiting for approval.
		pending, err := repo.GetPendingLoanByBorrowerID(ctx, in.BorrowerID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: borrower %s, loan %s", loan.ErrPendingLoanExists, in.BorrowerID, pending.LoanID)
		case !errors.Is(err, loan.ErrNotFound):
			return err
		}
		return repo.Create(ctx, l)
	}
	if u.uow == nil {
		err = create(u.repo)
	} else {
		err = u.uow.WithinTx(ctx, func(r uow.Repos) error { return create(r.Loans) })
	}
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("loan_id", l.LoanID).Str("tenant_id", l.TenantID).Msg("loan created")
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, tenantID, loanID string) (*LoanDTO, error) {
	l, err := u.load(ctx, tenantID, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// Schedule returns the stored schedule of an active or closed loan, and a
// preview for any other loan.
func (u *Usecase) Schedule(ctx context.Context, tenantID, loanID string) (*ScheduleDTO, error) {
	l, err := u.load(ctx, tenantID, loanID)
	if err != nil {
		return nil, err
	}
	terms := l.Terms()
	if terms.StartDate.IsZero() {
		terms.StartDate = u.today()
	}
	emi, _, err := engine.Installment(terms)
	if err != nil {
		return nil, err
	}
	interest, err := engine.TotalInterest(terms)
	if err != nil {
		return nil, err
	}

	out := &ScheduleDTO{
		LoanID:        l.LoanID,
		Status:        string(l.Status),
		Final:         l.ScheduleFinal(),
		Installment:   emi,
		TotalInterest: interest,
	}
	if out.Final {
		out.Items = l.AmortizationSchedule
		return out, nil
	}
	out.Items, err = engine.GenerateSchedule(terms)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Approve(ctx context.Context, tenantID, loanID, actorID string) (*LoanDTO, error) {
	return u.transition(ctx, tenantID, loanID, loan.ActionApprove, actorID, "")
}

func (u *Usecase) Reject(ctx context.Context, tenantID, loanID, actorID, reason string) (*LoanDTO, error) {
	return u.transition(ctx, tenantID, loanID, loan.ActionReject, actorID, reason)
}

// Activate disburses the loan: the schedule is generated from its terms and
// stored with it.
func (u *Usecase) Activate(ctx context.Context, tenantID, loanID, actorID string) (*LoanDTO, error) {
	return u.transition(ctx, tenantID, loanID, loan.ActionActivate, actorID, "")
}

func (u *Usecase) Close(ctx context.Context, tenantID, loanID, actorID, reason string) (*LoanDTO, error) {
	return u.transition(ctx, tenantID, loanID, loan.ActionClose, actorID, reason)
}

func (u *Usecase) transition(ctx context.Context, tenantID, loanID string, action loan.Action, actorID, reason string) (*LoanDTO, error) {
	if u.uow == nil {
		return nil, loan.ErrInvalidTransition
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.OwnedBy(tenantID) {
			return loan.ErrNotFound
		}
		at := u.now().UTC()
		p := loan.TransitionPayload{At: at, Reason: reason}
		if action == loan.ActionActivate && l.Status == loan.StateApproved {
			terms := l.Terms()
			if terms.StartDate.IsZero() {
				terms.StartDate = engine.DateOf(at)
			}
			schedule, err := engine.GenerateSchedule(terms)
			if err != nil {
				return err
			}
			p.Schedule = schedule
		}

		next, err := loan.Transition(l, action, actorID, p)
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, next); err != nil {
			return err
		}
		dto = toDTO(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("loan_id", loanID).Str("action", string(action)).Str("actor", actorID).Msg("loan transition")
	return dto, nil
}

func (u *Usecase) load(ctx context.Context, tenantID, loanID string) (*loan.Loan, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(tenantID) {
		return nil, loan.ErrNotFound
	}
	return l, nil
}
