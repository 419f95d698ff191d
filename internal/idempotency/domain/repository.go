package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByToken(ctx context.Context, db *gorm.DB, token string) (*Record, error)
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	// UpdateOutcome moves an IN_PROGRESS record to a terminal outcome. The
	// write is guarded on the current status; returns rows changed.
	UpdateOutcome(ctx context.Context, db *gorm.DB, token string, outcome Outcome, code int, body []byte, at time.Time) (int64, error)
}
