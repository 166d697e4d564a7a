// Package loanmock provides a function-backed loan.Repository.
package loanmock

import (
	"context"

	domain "lending-backoffice/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo delegates to whichever function fields are set. Unset writes succeed,
// unset lists return an empty slice, and unset getters fail with
// context.Canceled so a missing stub is never mistaken for ErrNotFound.
type Repo struct {
	CreateFn                     func(ctx context.Context, l *domain.Loan) error
	SaveFn                       func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetPendingLoanByBorrowerIDFn func(ctx context.Context, borrowerID string) (*domain.Loan, error)
	ListByStatusFn               func(ctx context.Context, status domain.State) ([]domain.Loan, error)
	ListByAgentIDFn              func(ctx context.Context, tenantID, agentID string) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, l)
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn == nil {
		return nil
	}
	return m.SaveFn(ctx, l)
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return get(ctx, m.GetByLoanIDFn, loanID)
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return get(ctx, m.GetByLoanIDForUpdateFn, loanID)
}

func (m *Repo) GetPendingLoanByBorrowerID(ctx context.Context, borrowerID string) (*domain.Loan, error) {
	return get(ctx, m.GetPendingLoanByBorrowerIDFn, borrowerID)
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.State) ([]domain.Loan, error) {
	if m.ListByStatusFn == nil {
		return []domain.Loan{}, nil
	}
	return m.ListByStatusFn(ctx, status)
}

func (m *Repo) ListByAgentID(ctx context.Context, tenantID, agentID string) ([]domain.Loan, error) {
	if m.ListByAgentIDFn == nil {
		return []domain.Loan{}, nil
	}
	return m.ListByAgentIDFn(ctx, tenantID, agentID)
}

func get(ctx context.Context, fn func(context.Context, string) (*domain.Loan, error), key string) (*domain.Loan, error) {
	if fn == nil {
		return nil, context.Canceled
	}
	return fn(ctx, key)
}
