package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	ListByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) ([]Event, error)
}
