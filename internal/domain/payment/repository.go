package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error

	// ListByLoanID returns the loan's payments ordered by payment date, oldest first.
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Payment, error)
}
