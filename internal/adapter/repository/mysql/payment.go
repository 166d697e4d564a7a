package mysql

import (
	"context"

	paymentDomain "lending-backoffice/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]paymentDomain.Payment, error) {
	out := []paymentDomain.Payment{}
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("payment_date ASC, id ASC").
		Find(&out).Error
	return out, err
}
