package penalty

import (
	"context"
	"errors"
	"testing"
	"time"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/payment"
	"lending-backoffice/internal/domain/uow"
	"lending-backoffice/internal/engine"
	"lending-backoffice/internal/testutil/loanmock"
	"lending-backoffice/internal/testutil/paymentmock"
	"lending-backoffice/internal/testutil/uowmock"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const loanA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeLoan(t *testing.T, loanID string) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		ID:               1,
		LoanID:           loanID,
		TenantID:         "tenant-a",
		PrincipalAmount:  dec("100000"),
		InterestRate:     dec("3"),
		TenureMonths:     12,
		PaymentFrequency: "monthly",
		StartDate:        loan.DateColumn(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		Status:           loan.StateActive,
		CurrentBalance:   dec("100000"),
	}
	schedule, err := engine.GenerateSchedule(l.Terms())
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	l.AmortizationSchedule = schedule
	return l
}

func newUsecase(loans *loanmock.Repo, pays *paymentmock.Repo) *Usecase {
	u := NewUsecase(loans, pays, uowmock.Passthrough(uow.Repos{Loans: loans, Payments: pays}), engine.DefaultPenaltyPolicy(), zerolog.Nop())
	u.now = func() time.Time { return time.Date(2024, 3, 16, 7, 0, 0, 0, time.UTC) }
	return u
}

func byID(ls ...*loan.Loan) func(context.Context, string) (*loan.Loan, error) {
	return func(_ context.Context, id string) (*loan.Loan, error) {
		for _, l := range ls {
			if l.LoanID == id {
				return l, nil
			}
		}
		return nil, loan.ErrNotFound
	}
}

func TestPreview_LateInstallments(t *testing.T) {
	l := activeLoan(t, loanA)
	loans := &loanmock.Repo{GetByLoanIDFn: byID(l)}
	u := newUsecase(loans, &paymentmock.Repo{})

	got, err := u.Preview(context.Background(), "tenant-a", loanA, engine.Date{})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got.Summary.AsOf.String() != "2024-03-16" {
		t.Fatalf("as_of defaults to today, got %s", got.Summary.AsOf)
	}
	if len(got.Summary.PerInstallment) != 2 {
		t.Fatalf("want 2 late installments, got %+v", got.Summary.PerInstallment)
	}
	if !got.Summary.TotalPenalties.Equal(dec("311.44")) || !got.Outstanding.Equal(dec("311.44")) {
		t.Fatalf("total=%s outstanding=%s", got.Summary.TotalPenalties, got.Outstanding)
	}
	if got.Summary.PerInstallment[0].DaysOverdue != 30 {
		t.Fatalf("days overdue = %d", got.Summary.PerInstallment[0].DaysOverdue)
	}
	if got.Policy.DaysInMonth != 30 || got.Policy.Attribution != engine.AttributeByInstallment {
		t.Fatalf("unexpected policy: %+v", got.Policy)
	}
}

func TestPreview_SubtractsPenaltyPaid(t *testing.T) {
	l := activeLoan(t, loanA)
	pays := &paymentmock.Repo{ListByLoanIDFn: func(context.Context, uint64) ([]payment.Payment, error) {
		return []payment.Payment{{
			PaymentDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:           dec("100"),
			AppliedToPenalty: dec("100"),
			Type:             payment.TypePenalty,
			Status:           payment.StatusCompleted,
		}}, nil
	}}
	u := newUsecase(&loanmock.Repo{GetByLoanIDFn: byID(l)}, pays)

	got, err := u.Preview(context.Background(), "tenant-a", loanA, engine.NewDate(2024, time.March, 16))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !got.PenaltyPaid.Equal(dec("100")) || !got.Outstanding.Equal(dec("211.44")) {
		t.Fatalf("paid=%s outstanding=%s", got.PenaltyPaid, got.Outstanding)
	}
}

func TestPreview_NotYetActiveHasNoPenalty(t *testing.T) {
	l := activeLoan(t, loanA)
	l.Status = loan.StateApproved
	u := newUsecase(&loanmock.Repo{GetByLoanIDFn: byID(l)}, &paymentmock.Repo{})

	got, err := u.Preview(context.Background(), "tenant-a", loanA, engine.NewDate(2025, time.January, 1))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !got.Summary.TotalPenalties.IsZero() || len(got.Summary.PerInstallment) != 0 {
		t.Fatalf("approved loan must not accrue: %+v", got.Summary)
	}
}

func TestPreview_OtherTenant(t *testing.T) {
	u := newUsecase(&loanmock.Repo{GetByLoanIDFn: byID(activeLoan(t, loanA))}, &paymentmock.Repo{})
	if _, err := u.Preview(context.Background(), "tenant-b", loanA, engine.Date{}); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRefresh_PersistsTotal(t *testing.T) {
	l := activeLoan(t, loanA)
	var saved []*loan.Loan
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: byID(l),
		SaveFn: func(_ context.Context, got *loan.Loan) error {
			saved = append(saved, got)
			return nil
		},
	}
	u := newUsecase(loans, &paymentmock.Repo{})

	got, err := u.Refresh(context.Background(), "tenant-a", loanA, engine.NewDate(2024, time.March, 16))
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(saved) != 1 || !saved[0].TotalPenalties.Equal(dec("311.44")) {
		t.Fatalf("unexpected save: %+v", saved)
	}
	if !got.Outstanding.Equal(dec("311.44")) {
		t.Fatalf("outstanding = %s", got.Outstanding)
	}

	// unchanged total is not written again
	l.TotalPenalties = dec("311.44")
	if _, err := u.Refresh(context.Background(), "tenant-a", loanA, engine.NewDate(2024, time.March, 16)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("want no second save, got %d", len(saved))
	}

	if _, err := u.Refresh(context.Background(), "tenant-b", loanA, engine.Date{}); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("other tenant: want ErrNotFound, got %v", err)
	}
}

func TestSweep_CountsFailuresAndContinues(t *testing.T) {
	a := activeLoan(t, loanA)
	b := activeLoan(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	closed := activeLoan(t, "cccccccccccccccccccccccccccccccc")
	closed.Status = loan.StateClosed

	var savedIDs []string
	loans := &loanmock.Repo{
		ListByStatusFn: func(_ context.Context, s loan.State) ([]loan.Loan, error) {
			if s != loan.StateActive {
				t.Fatalf("sweep must list active loans, got %s", s)
			}
			return []loan.Loan{*a, *b, *closed, {LoanID: "dddddddddddddddddddddddddddddddd"}}, nil
		},
		GetByLoanIDForUpdateFn: byID(a, b, closed),
		SaveFn: func(_ context.Context, l *loan.Loan) error {
			if l.LoanID == b.LoanID {
				return errors.New("deadlock")
			}
			savedIDs = append(savedIDs, l.LoanID)
			return nil
		},
	}
	u := newUsecase(loans, &paymentmock.Repo{})

	res, err := u.Sweep(context.Background(), engine.Date{})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	// a refreshed, b save fails, closed skipped, d vanished
	if res.Refreshed != 2 || res.Failed != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(savedIDs) != 1 || savedIDs[0] != loanA {
		t.Fatalf("saved = %v", savedIDs)
	}
	if res.AsOf.String() != "2024-03-16" {
		t.Fatalf("as_of = %s", res.AsOf)
	}
}

func TestSweep_ListError(t *testing.T) {
	boom := errors.New("db down")
	loans := &loanmock.Repo{ListByStatusFn: func(context.Context, loan.State) ([]loan.Loan, error) { return nil, boom }}
	u := newUsecase(loans, &paymentmock.Repo{})
	if _, err := u.Sweep(context.Background(), engine.Date{}); !errors.Is(err, boom) {
		t.Fatalf("want list error, got %v", err)
	}
}
