package repository

import (
	"context"
	"errors"
	"time"

	"github.com/paylane/paylane/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, payment_id, idempotency_key, payment_method, amount, currency, status, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.PaymentID,
		payment.IdempotencyKey,
		payment.PaymentMethod,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.Description,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repo) ExistsByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, paymentID string, from, to domain.Status, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, updated_at = ? WHERE payment_id = ? AND status = ?`,
		to,
		at,
		paymentID,
		from,
	)
	return result.RowsAffected, result.Error
}
