package uow

import (
	"context"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/payment"
)

// Repos are the repositories bound to one transaction.
type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
}

// UnitOfWork commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx row-locks loanID before calling fn. A missing loan fails
	// with loan.ErrNotFound and fn is not called.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
