package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*Payment, error)
	ExistsByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (bool, error)
	// UpdateStatus applies a guarded status change: the row is only written when
	// its status still equals from. Returns the number of rows changed.
	UpdateStatus(ctx context.Context, db *gorm.DB, paymentID string, from, to Status, at time.Time) (int64, error)
}
