package repository

import (
	"context"
	"errors"
	"time"

	"github.com/paylane/paylane/internal/idempotency/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).
		Where("idempotency_key = ?", token).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO idempotency_keys (id, idempotency_key, request_hash, status, response_code, response_body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Token,
		record.RequestHash,
		record.Status,
		record.ResponseCode,
		record.ResponseBody,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) UpdateOutcome(ctx context.Context, db *gorm.DB, token string, outcome domain.Outcome, code int, body []byte, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE idempotency_keys
		 SET status = ?, response_code = ?, response_body = ?, updated_at = ?
		 WHERE idempotency_key = ? AND status = ?`,
		outcome,
		code,
		body,
		at,
		token,
		domain.OutcomeInProgress,
	)
	return result.RowsAffected, result.Error
}
