package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/paylane/paylane/internal/event/domain"
	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("event.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Append(ctx context.Context, conn *gorm.DB, paymentID string, eventType domain.Type, from *paymentdomain.Status, to paymentdomain.Status, payload []byte) (domain.Event, error) {
	if conn == nil {
		conn = s.db
	}

	// The audit payload is best-effort context; a bad one must not abort the
	// state change it documents.
	if len(payload) == 0 || !json.Valid(payload) {
		payload = []byte("{}")
	}

	event := domain.Event{
		ID:         s.genID.Generate(),
		PaymentID:  paymentID,
		EventType:  eventType,
		FromStatus: from,
		ToStatus:   to,
		Payload:    datatypes.JSON(payload),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, conn, &event); err != nil {
		return domain.Event{}, fmt.Errorf("append payment event: %w", err)
	}
	return event, nil
}

func (s *Service) ListFor(ctx context.Context, paymentID string) ([]domain.Event, error) {
	events, err := s.repo.ListByPaymentID(ctx, s.db, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment events: %w", err)
	}
	return events, nil
}
