package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetPendingLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	ListByStatus(ctx context.Context, status State) ([]Loan, error)
	ListByAgentID(ctx context.Context, tenantID, agentID string) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
