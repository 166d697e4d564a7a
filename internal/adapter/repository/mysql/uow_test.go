package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/uow"

	"github.com/shopspring/decimal"
)

// seedActive stores an active loan with a 100000 balance.
func seedActive(t *testing.T, r *LoanRepository, loanID string) *loanDomain.Loan {
	t.Helper()
	l := makeLoan(loanID, "BR-"+loanID)
	l.Status = loanDomain.StateActive
	l.CurrentBalance = l.PrincipalAmount
	if err := r.Create(context.Background(), l); err != nil {
		t.Fatalf("seed %s: %v", loanID, err)
	}
	return l
}

// recordPayment is the write pattern the payment use case runs inside a
// loan transaction: insert the payment, then move the loan balances.
func recordPayment(ctx context.Context, r uow.Repos, l *loanDomain.Loan, amount string) error {
	p := makePayment(l.ID, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), amount)
	if err := r.Payments.Create(ctx, p); err != nil {
		return err
	}
	l.CurrentBalance = l.CurrentBalance.Sub(p.AppliedToPrincipal)
	l.TotalPaid = l.TotalPaid.Add(p.Amount)
	return r.Loans.Save(ctx, l)
}

func TestGormUoW_WithinLoanTx_CommitsPaymentAndBalance(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	loans := NewLoanRepository(db)
	seeded := seedActive(t, loans, "LN-PAY")

	err := NewGormUoW(db).WithinLoanTx(ctx, "LN-PAY", func(r uow.Repos, l *loanDomain.Loan) error {
		if l.ID != seeded.ID || l.Status != loanDomain.StateActive {
			t.Fatalf("locked the wrong loan: %+v", l)
		}
		return recordPayment(ctx, r, l, "7046.21")
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := loans.GetByLoanID(ctx, "LN-PAY")
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if !got.CurrentBalance.Equal(decimal.RequireFromString("92953.79")) || !got.TotalPaid.Equal(decimal.RequireFromString("7046.21")) {
		t.Fatalf("balances not committed: balance=%s paid=%s", got.CurrentBalance, got.TotalPaid)
	}
	ps, err := NewPaymentRepository(db).ListByLoanID(ctx, seeded.ID)
	if err != nil || len(ps) != 1 {
		t.Fatalf("payment not committed: %v %d", err, len(ps))
	}
}

func TestGormUoW_WithinLoanTx_RollsBackBoth(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	loans := NewLoanRepository(db)
	seeded := seedActive(t, loans, "LN-RB")
	stop := errors.New("stop")

	err := NewGormUoW(db).WithinLoanTx(ctx, "LN-RB", func(r uow.Repos, l *loanDomain.Loan) error {
		if err := recordPayment(ctx, r, l, "500.00"); err != nil {
			return err
		}
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("want the callback error back, got %v", err)
	}

	got, _ := loans.GetByLoanID(ctx, "LN-RB")
	if !got.CurrentBalance.Equal(seeded.PrincipalAmount) || !got.TotalPaid.IsZero() {
		t.Fatalf("balances leaked past rollback: balance=%s paid=%s", got.CurrentBalance, got.TotalPaid)
	}
	if ps, _ := NewPaymentRepository(db).ListByLoanID(ctx, seeded.ID); len(ps) != 0 {
		t.Fatalf("payment leaked past rollback: %d rows", len(ps))
	}
}

func TestGormUoW_WithinLoanTx_MissingLoan(t *testing.T) {
	db := openTestDB(t)
	err := NewGormUoW(db).WithinLoanTx(context.Background(), "LN-NOPE", func(uow.Repos, *loanDomain.Loan) error {
		t.Fatalf("callback must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGormUoW_WithinTx_CreateIsAtomic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tx := NewGormUoW(db)
	loans := NewLoanRepository(db)

	if err := tx.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.Create(ctx, makeLoan("LN-NEW", "BR-NEW"))
	}); err != nil {
		t.Fatalf("WithinTx commit: %v", err)
	}
	if _, err := loans.GetByLoanID(ctx, "LN-NEW"); err != nil {
		t.Fatalf("committed loan missing: %v", err)
	}

	_ = tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan("LN-GONE", "BR-GONE")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if _, err := loans.GetByLoanID(ctx, "LN-GONE"); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("rolled back loan still visible: %v", err)
	}
}
