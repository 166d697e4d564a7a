package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/payment"
	"lending-backoffice/internal/domain/uow"
	"lending-backoffice/internal/engine"
	"lending-backoffice/pkg/id"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// systemActor closes loans that a payment brought to a zero balance.
const systemActor = "system"

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

func (u *Usecase) Record(ctx context.Context, in RecordPaymentInput) (*RecordResult, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", payment.ErrInvalidAmount)
	}
	ptype, ok := payment.ParseType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment type %q", payment.ErrInvalidAmount, in.Type)
	}
	if in.InstallmentNumber < 0 {
		return nil, fmt.Errorf("%w: negative installment number", payment.ErrInvalidAmount)
	}
	if u.uow == nil {
		return nil, loan.ErrInvalidTransition
	}

	var out *RecordResult
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.OwnedBy(in.TenantID) {
			return loan.ErrNotFound
		}
		if l.Status != loan.StateActive {
			return fmt.Errorf("%w: loan %s is %s", payment.ErrLoanNotActive, l.LoanID, l.Status)
		}

		day := in.PaymentDate
		if day.IsZero() {
			day = engine.DateOf(u.now().UTC())
		}
		history, err := r.Payments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		alloc, err := u.allocate(l, history, in, ptype, day)
		if err != nil {
			return err
		}
		if ptype == payment.TypePayoff && alloc.Principal.LessThan(l.CurrentBalance) {
			return fmt.Errorf("%w: payoff of %s leaves a balance of %s", payment.ErrInvalidAmount,
				in.Amount.StringFixed(2), l.CurrentBalance.Sub(alloc.Principal).StringFixed(2))
		}

		p := &payment.Payment{
			PaymentID:          id.NewPaymentID(),
			LoanID:             l.ID,
			PaymentDate:        day.Time(),
			Amount:             in.Amount.Round(2),
			AppliedToPrincipal: alloc.Principal,
			AppliedToInterest:  alloc.Interest,
			AppliedToPenalty:   alloc.Penalty,
			InstallmentNumber:  alloc.InstallmentNumber,
			Type:               ptype,
			Status:             payment.StatusCompleted,
			ReceivedBy:         in.ReceivedBy,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		next := *l
		next.TotalPaid = l.TotalPaid.Add(p.Amount)
		next.CurrentBalance = l.CurrentBalance.Sub(p.AppliedToPrincipal)
		if next.CurrentBalance.IsNegative() {
			next.CurrentBalance = decimal.Zero
		}
		saved := &next
		if next.CurrentBalance.IsZero() {
			at := u.now().UTC()
			saved, err = loan.Transition(&next, loan.ActionClose, systemActor, loan.TransitionPayload{At: at, Reason: "paid in full"})
			if err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, saved); err != nil {
			return err
		}

		out = &RecordResult{
			Payment:        toDTO(l.LoanID, p, l.CommissionPercentage),
			LoanStatus:     string(saved.Status),
			CurrentBalance: saved.CurrentBalance,
			TotalPaid:      saved.TotalPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("loan_id", in.LoanID).
		Str("payment_id", out.Payment.PaymentID).
		Str("amount", out.Payment.Amount.StringFixed(2)).
		Str("loan_status", out.LoanStatus).
		Msg("payment recorded")
	return out, nil
}

// allocate decides how the payment splits. An explicit split must add up to
// the amount; otherwise penalty is settled first, then interest and principal
// of the target installment and of every other installment due by the
// payment date, and the remainder goes to principal.
func (u *Usecase) allocate(l *loan.Loan, history []payment.Payment, in RecordPaymentInput, ptype payment.Type, day engine.Date) (engine.Allocation, error) {
	paid := payment.ToEngine(history)
	open := engine.NextOpenInstallment(l.AmortizationSchedule, paid)
	if in.InstallmentNumber > 0 {
		open = engine.InstallmentByNumber(l.AmortizationSchedule, paid, in.InstallmentNumber)
		if !open.Found {
			return engine.Allocation{}, fmt.Errorf("%w: installment %d is not open", payment.ErrInvalidAmount, in.InstallmentNumber)
		}
	}
	// overdue installments are caught up; future interest is not prepaid
	open = open.Through(day)

	if in.hasSplit() {
		a := engine.Allocation{
			Principal: orZero(in.AppliedToPrincipal),
			Interest:  orZero(in.AppliedToInterest),
			Penalty:   orZero(in.AppliedToPenalty),
		}
		if a.Principal.IsNegative() || a.Interest.IsNegative() || a.Penalty.IsNegative() {
			return engine.Allocation{}, fmt.Errorf("%w: applied parts must not be negative", payment.ErrInvalidAmount)
		}
		if !engine.WithinCent(a.Principal.Add(a.Interest).Add(a.Penalty), in.Amount) {
			return engine.Allocation{}, fmt.Errorf("%w: applied parts do not add up to %s", payment.ErrInvalidAmount, in.Amount.StringFixed(2))
		}
		if open.Found {
			a.InstallmentNumber = open.Item.PaymentNumber
		}
		return a, nil
	}

	summary, err := u.policy.AccrueSchedule(l.AmortizationSchedule, paid, day)
	if err != nil {
		return engine.Allocation{}, err
	}
	outstanding := summary.TotalPenalties.Sub(payment.PenaltyPaid(history))
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	if ptype == payment.TypePenalty {
		if in.Amount.GreaterThan(outstanding) {
			return engine.Allocation{}, fmt.Errorf("%w: penalty payment %s exceeds outstanding penalty %s",
				payment.ErrInvalidAmount, in.Amount.StringFixed(2), outstanding.StringFixed(2))
		}
		return engine.Allocation{Principal: decimal.Zero, Interest: decimal.Zero, Penalty: in.Amount.Round(2)}, nil
	}
	return engine.AllocatePayment(in.Amount, outstanding, open)
}

// List returns the loan's payments, oldest first, with the commission each
// one earned on its interest part.
func (u *Usecase) List(ctx context.Context, tenantID, loanID string) (*ListResult, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(tenantID) {
		return nil, loan.ErrNotFound
	}
	ps, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := &ListResult{LoanID: l.LoanID, TotalCommission: decimal.Zero, Payments: make([]PaymentDTO, 0, len(ps))}
	for i := range ps {
		dto := toDTO(l.LoanID, &ps[i], l.CommissionPercentage)
		if ps[i].Status == payment.StatusCompleted {
			out.TotalCommission = out.TotalCommission.Add(dto.Commission)
		}
		out.Payments = append(out.Payments, dto)
	}
	return out, nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Round(2)
}
