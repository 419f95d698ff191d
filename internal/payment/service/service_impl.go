package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/paylane/paylane/internal/config"
	eventdomain "github.com/paylane/paylane/internal/event/domain"
	"github.com/paylane/paylane/internal/fingerprint"
	idemdomain "github.com/paylane/paylane/internal/idempotency/domain"
	obsmetrics "github.com/paylane/paylane/internal/observability/metrics"
	"github.com/paylane/paylane/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	IdemSvc    idemdomain.Service
	EventSvc   eventdomain.Service
	Limits     *config.LimitsHolder `optional:"true"`
	ObsMetrics *obsmetrics.Metrics  `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	idemSvc    idemdomain.Service
	eventSvc   eventdomain.Service
	limits     *config.LimitsHolder
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		idemSvc:    p.IdemSvc,
		eventSvc:   p.EventSvc,
		limits:     p.Limits,
		obsMetrics: p.ObsMetrics,
	}
}

// Create admits the idempotency key, then performs the payment insert, the
// creation event append and the idempotency commit in one transaction. A
// replayed key short-circuits to the stored response without side effects.
func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest, idempotencyKey string) (domain.CreatePaymentResponse, error) {
	if err := s.validateCreate(&req); err != nil {
		return domain.CreatePaymentResponse{}, err
	}

	requestHash := fingerprint.Compute(req)
	decision, err := s.idemSvc.Admit(ctx, idempotencyKey, requestHash)
	if err != nil {
		s.obsMetrics.RecordTokenConflict(ctx, conflictReason(err))
		return domain.CreatePaymentResponse{}, err
	}

	if !decision.Proceed {
		var replayed domain.CreatePaymentResponse
		if err := json.Unmarshal(decision.ResponseBody, &replayed); err != nil {
			return domain.CreatePaymentResponse{}, fmt.Errorf("decode stored response for key %s: %w", decision.Token, err)
		}
		s.obsMetrics.RecordIdempotentReplay(ctx)
		s.log.Info("replayed payment creation",
			zap.String("payment_id", replayed.PaymentID),
		)
		return replayed, nil
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:             s.genID.Generate(),
		PaymentID:      uuid.NewString(),
		IdempotencyKey: decision.Token,
		PaymentMethod:  req.PaymentMethod,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         domain.StatusInit,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var resp domain.CreatePaymentResponse
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		payload, err := json.Marshal(req)
		if err != nil {
			payload = []byte("{}")
		}
		if _, err := s.eventSvc.Append(ctx, tx, payment.PaymentID, eventdomain.TypePaymentCreated, nil, domain.StatusInit, payload); err != nil {
			return err
		}

		resp = domain.CreatePaymentResponse{
			PaymentID: payment.PaymentID,
			Status:    payment.Status,
			Amount:    payment.Amount,
			Currency:  payment.Currency,
			CreatedAt: payment.CreatedAt,
		}
		body, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return s.idemSvc.Commit(ctx, tx, decision.Token, idemdomain.OutcomeSucceeded, http.StatusCreated, body)
	})
	if txErr != nil {
		// The unit of work rolled back; pin the failure on the key so a retry
		// observes a terminal FAILED outcome instead of re-running half of it.
		detail, _ := json.Marshal(map[string]string{"error": txErr.Error()})
		if commitErr := s.idemSvc.Commit(ctx, nil, decision.Token, idemdomain.OutcomeFailed, http.StatusInternalServerError, detail); commitErr != nil {
			s.log.Error("record failed creation outcome",
				zap.String("idempotency_key", decision.Token),
				zap.Error(commitErr),
			)
		}
		return domain.CreatePaymentResponse{}, txErr
	}

	s.obsMetrics.RecordPaymentCreated(ctx, payment.Currency, payment.PaymentMethod)
	s.log.Info("payment created",
		zap.String("payment_id", payment.PaymentID),
		zap.Int64("amount", payment.Amount),
		zap.String("currency", payment.Currency),
	)
	return resp, nil
}

func (s *Service) Authorize(ctx context.Context, paymentID string) (domain.PaymentResponse, error) {
	return s.transition(ctx, paymentID, domain.StatusAuthorized, "authorize")
}

func (s *Service) Settle(ctx context.Context, paymentID string) (domain.PaymentResponse, error) {
	return s.transition(ctx, paymentID, domain.StatusSettled, "settle")
}

func (s *Service) Cancel(ctx context.Context, paymentID string) (domain.PaymentResponse, error) {
	return s.transition(ctx, paymentID, domain.StatusCanceled, "cancel")
}

func (s *Service) Fail(ctx context.Context, paymentID string) (domain.PaymentResponse, error) {
	return s.transition(ctx, paymentID, domain.StatusFailed, "fail")
}

func (s *Service) Reverse(ctx context.Context, paymentID string) (domain.PaymentResponse, error) {
	return s.transition(ctx, paymentID, domain.StatusReversed, "reverse")
}

func (s *Service) Get(ctx context.Context, paymentID string) (domain.PaymentResponse, error) {
	payment, err := s.load(ctx, paymentID)
	if err != nil {
		return domain.PaymentResponse{}, err
	}
	return toResponse(payment), nil
}

func (s *Service) Events(ctx context.Context, paymentID string) ([]domain.EventResponse, error) {
	exists, err := s.repo.ExistsByPaymentID(ctx, s.db, strings.TrimSpace(paymentID))
	if err != nil {
		return nil, fmt.Errorf("check payment existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	events, err := s.eventSvc.ListFor(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		return nil, err
	}

	out := make([]domain.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, domain.EventResponse{
			EventType:  string(e.EventType),
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Payload:    json.RawMessage(e.Payload),
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}

// transition applies one guarded status change. Re-invoking with an already
// reached target returns the payment untouched and appends nothing.
func (s *Service) transition(ctx context.Context, paymentID string, target domain.Status, action string) (domain.PaymentResponse, error) {
	payment, err := s.load(ctx, paymentID)
	if err != nil {
		return domain.PaymentResponse{}, err
	}

	if payment.Status == target {
		return toResponse(payment), nil
	}
	if !payment.Status.CanTransitionTo(target) {
		s.obsMetrics.RecordTransitionRejected(ctx, string(payment.Status), string(target))
		return domain.PaymentResponse{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, payment.Status, target)
	}

	from := payment.Status
	now := time.Now().UTC()
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.UpdateStatus(ctx, tx, payment.PaymentID, from, target, now)
		if err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		if rows == 0 {
			// A concurrent call moved the payment first; its state wins.
			return fmt.Errorf("%w: payment %s no longer in %s", domain.ErrInvalidTransition, payment.PaymentID, from)
		}

		payload, err := json.Marshal(map[string]string{
			"action": action,
			"at":     now.Format(time.RFC3339Nano),
		})
		if err != nil {
			payload = []byte("{}")
		}
		_, err = s.eventSvc.Append(ctx, tx, payment.PaymentID, eventdomain.TypeStatusChanged, &from, target, payload)
		return err
	})
	if txErr != nil {
		return domain.PaymentResponse{}, txErr
	}

	payment.Status = target
	payment.UpdatedAt = now
	s.obsMetrics.RecordStatusTransition(ctx, string(from), string(target))
	s.log.Info("payment status changed",
		zap.String("payment_id", payment.PaymentID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	return toResponse(payment), nil
}

func (s *Service) load(ctx context.Context, paymentID string) (*domain.Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, domain.ErrNotFound
	}

	payment, err := s.repo.FindByPaymentID(ctx, s.db, paymentID)
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := domain.ParseStatus(string(payment.Status)); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *Service) validateCreate(req *domain.CreatePaymentRequest) error {
	req.PaymentMethod = strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if req.PaymentMethod == "" {
		return domain.ErrInvalidPaymentMethod
	}

	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(req.Currency) != 3 || !isAlpha(req.Currency) {
		return domain.ErrInvalidCurrency
	}

	if req.Amount <= 0 {
		return domain.ErrInvalidAmount
	}

	req.Description = strings.TrimSpace(req.Description)
	if len(req.Description) > 255 {
		return domain.ErrInvalidDescription
	}

	if !s.limits.MethodAllowed(req.PaymentMethod) {
		return domain.ErrMethodNotAllowed
	}
	if max, ok := s.limits.MaxAmount(req.Currency); ok && req.Amount > max {
		return domain.ErrAmountLimitExceeded
	}
	return nil
}

func toResponse(payment *domain.Payment) domain.PaymentResponse {
	return domain.PaymentResponse{
		PaymentID: payment.PaymentID,
		Status:    payment.Status,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		CreatedAt: payment.CreatedAt,
		UpdatedAt: payment.UpdatedAt,
	}
}

func conflictReason(err error) string {
	switch {
	case errors.Is(err, idemdomain.ErrTokenConflict):
		return "payload_mismatch"
	case errors.Is(err, idemdomain.ErrReplayFailed):
		return "replay_failed"
	case errors.Is(err, idemdomain.ErrInProgress):
		return "in_progress"
	default:
		return "storage"
	}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
