package repository

import (
	"context"

	"github.com/paylane/paylane/internal/event/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_events (id, payment_id, event_type, from_status, to_status, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.PaymentID,
		event.EventType,
		event.FromStatus,
		event.ToStatus,
		event.Payload,
		event.CreatedAt,
	).Error
}

func (r *repo) ListByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) ([]domain.Event, error) {
	var events []domain.Event
	err := db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("payment_id = ?", paymentID).
		Order("created_at asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
