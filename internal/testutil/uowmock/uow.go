// Package uowmock provides a function-backed uow.UnitOfWork for use case tests.
package uowmock

import (
	"context"
	"errors"

	"lending-backoffice/internal/domain/loan"
	"lending-backoffice/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW runs whatever its function fields do. Unset fields fail with
// errUnimplemented so a test notices an unexpected transaction.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

// Passthrough runs every callback directly against repos. WithinLoanTx loads
// the loan through repos.Loans.GetByLoanIDForUpdate, like the gorm adapter.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(repos, l)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn == nil {
		return errUnimplemented
	}
	return m.WithinTxFn(ctx, fn)
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn == nil {
		return errUnimplemented
	}
	return m.WithinLoanTxFn(ctx, loanID, fn)
}
