package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/paylane/paylane/internal/idempotency/domain"
	"github.com/paylane/paylane/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("idempotency.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Admit(ctx context.Context, token, requestHash string) (domain.Decision, error) {
	token = normalizeOrGenerate(token)

	record, err := s.repo.FindByToken(ctx, s.db, token)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("find idempotency record: %w", err)
	}

	inserted := false
	if record == nil {
		now := time.Now().UTC()
		fresh := &domain.Record{
			ID:          s.genID.Generate(),
			Token:       token,
			RequestHash: requestHash,
			Status:      domain.OutcomeInProgress,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		// The unique key is the lock: losing this insert means another call
		// holds the token, so fall back to its record instead of failing.
		if insertErr := s.repo.Insert(ctx, s.db, fresh); insertErr != nil {
			if !db.IsDuplicateKeyErr(insertErr) {
				return domain.Decision{}, fmt.Errorf("insert idempotency record: %w", insertErr)
			}
			record, err = s.repo.FindByToken(ctx, s.db, token)
			if err != nil {
				return domain.Decision{}, fmt.Errorf("reread idempotency record: %w", err)
			}
			if record == nil {
				return domain.Decision{}, fmt.Errorf("idempotency record vanished after duplicate insert: %s", token)
			}
		} else {
			record = fresh
			inserted = true
		}
	}

	if record.RequestHash != requestHash {
		return domain.Decision{}, domain.ErrTokenConflict
	}

	switch record.Status {
	case domain.OutcomeSucceeded:
		code := 0
		if record.ResponseCode != nil {
			code = *record.ResponseCode
		}
		return domain.Decision{
			Token:        token,
			ResponseCode: code,
			ResponseBody: []byte(record.ResponseBody),
		}, nil
	case domain.OutcomeFailed:
		return domain.Decision{}, domain.ErrReplayFailed
	}

	if !inserted {
		// Someone else's attempt is in flight; that attempt is authoritative.
		return domain.Decision{}, domain.ErrInProgress
	}

	return domain.Decision{Token: token, Proceed: true}, nil
}

func (s *Service) Commit(ctx context.Context, conn *gorm.DB, token string, outcome domain.Outcome, code int, body []byte) error {
	if conn == nil {
		conn = s.db
	}
	if !outcome.Terminal() {
		return fmt.Errorf("commit requires a terminal outcome, got %s", outcome)
	}

	rows, err := s.repo.UpdateOutcome(ctx, conn, token, outcome, code, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store idempotency outcome: %w", err)
	}
	if rows == 0 {
		return domain.ErrAlreadyCommitted
	}
	return nil
}

func normalizeOrGenerate(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.NewString()
	}
	return token
}
