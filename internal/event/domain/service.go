package domain

import (
	"context"

	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
	"gorm.io/gorm"
)

type Service interface {
	// Append writes one audit record. db lets callers append inside the
	// transaction that performs the state change the record describes.
	Append(ctx context.Context, db *gorm.DB, paymentID string, eventType Type, from *paymentdomain.Status, to paymentdomain.Status, payload []byte) (Event, error)
	// ListFor returns a payment's events in creation order.
	ListFor(ctx context.Context, paymentID string) ([]Event, error)
}
