package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	idemdomain "github.com/paylane/paylane/internal/idempotency/domain"
	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
	"go.uber.org/zap"
)

type stubPaymentService struct {
	createFn     func(ctx context.Context, req paymentdomain.CreatePaymentRequest, key string) (paymentdomain.CreatePaymentResponse, error)
	transitionFn func(ctx context.Context, paymentID string) (paymentdomain.PaymentResponse, error)
	getFn        func(ctx context.Context, paymentID string) (paymentdomain.PaymentResponse, error)
	eventsFn     func(ctx context.Context, paymentID string) ([]paymentdomain.EventResponse, error)

	lastKey string
}

func (s *stubPaymentService) Create(ctx context.Context, req paymentdomain.CreatePaymentRequest, key string) (paymentdomain.CreatePaymentResponse, error) {
	s.lastKey = key
	if s.createFn != nil {
		return s.createFn(ctx, req, key)
	}
	return paymentdomain.CreatePaymentResponse{PaymentID: "p-1", Status: paymentdomain.StatusInit, Amount: req.Amount, Currency: req.Currency, CreatedAt: time.Now().UTC()}, nil
}

func (s *stubPaymentService) Authorize(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
	return s.transitionFn(ctx, id)
}
func (s *stubPaymentService) Settle(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
	return s.transitionFn(ctx, id)
}
func (s *stubPaymentService) Cancel(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
	return s.transitionFn(ctx, id)
}
func (s *stubPaymentService) Fail(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
	return s.transitionFn(ctx, id)
}
func (s *stubPaymentService) Reverse(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
	return s.transitionFn(ctx, id)
}
func (s *stubPaymentService) Get(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
	return s.getFn(ctx, id)
}
func (s *stubPaymentService) Events(ctx context.Context, id string) ([]paymentdomain.EventResponse, error) {
	return s.eventsFn(ctx, id)
}

func newTestServer(t *testing.T, svc paymentdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:     engine,
		paymentSvc: svc,
		log:        zap.NewNop(),
	}
	srv.registerPaymentRoutes()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestCreatePaymentHandler(t *testing.T) {
	stub := &stubPaymentService{}
	srv := newTestServer(t, stub)

	rec := doJSON(t, srv, http.MethodPost, "/payments", map[string]any{
		"payment_method": "CARD",
		"amount":         2500,
		"currency":       "USD",
	}, map[string]string{"Idempotency-Key": "abc-123"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastKey != "abc-123" {
		t.Fatalf("idempotency key not forwarded, got %q", stub.lastKey)
	}

	var payload struct {
		Data paymentdomain.CreatePaymentResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.PaymentID != "p-1" || payload.Data.Status != paymentdomain.StatusInit {
		t.Fatalf("unexpected payload: %+v", payload.Data)
	}
}

func TestCreatePaymentHandler_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", paymentdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid transition", paymentdomain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"token conflict", idemdomain.ErrTokenConflict, http.StatusConflict, "idempotency_key_conflict"},
		{"replay failed", idemdomain.ErrReplayFailed, http.StatusConflict, "previous_attempt_failed"},
		{"in progress", idemdomain.ErrInProgress, http.StatusConflict, "request_in_progress"},
		{"invalid amount", paymentdomain.ErrInvalidAmount, http.StatusBadRequest, "validation_error"},
		{"amount limit", paymentdomain.ErrAmountLimitExceeded, http.StatusBadRequest, "validation_error"},
		{"corrupt status", paymentdomain.ErrCorruptStatus, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubPaymentService{
				createFn: func(context.Context, paymentdomain.CreatePaymentRequest, string) (paymentdomain.CreatePaymentResponse, error) {
					return paymentdomain.CreatePaymentResponse{}, tt.err
				},
			}
			srv := newTestServer(t, stub)

			rec := doJSON(t, srv, http.MethodPost, "/payments", map[string]any{
				"payment_method": "CARD",
				"amount":         100,
				"currency":       "USD",
			}, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var payload errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload.Error.Type != tt.wantType {
				t.Fatalf("error type = %q, want %q", payload.Error.Type, tt.wantType)
			}
		})
	}
}

func TestTransitionHandlers(t *testing.T) {
	calls := map[string]string{}
	stub := &stubPaymentService{}
	srv := newTestServer(t, stub)

	for _, action := range []string{"authorize", "settle", "cancel", "fail", "reverse"} {
		action := action
		stub.transitionFn = func(ctx context.Context, id string) (paymentdomain.PaymentResponse, error) {
			calls[action] = id
			return paymentdomain.PaymentResponse{PaymentID: id, Status: paymentdomain.StatusAuthorized}, nil
		}

		rec := doJSON(t, srv, http.MethodPost, "/payments/p-9/"+action, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", action, rec.Code)
		}
		if calls[action] != "p-9" {
			t.Fatalf("%s: payment id not forwarded", action)
		}
	}
}

func TestGetPaymentHandler_NotFound(t *testing.T) {
	stub := &stubPaymentService{
		getFn: func(context.Context, string) (paymentdomain.PaymentResponse, error) {
			return paymentdomain.PaymentResponse{}, paymentdomain.ErrNotFound
		},
	}
	srv := newTestServer(t, stub)

	rec := doJSON(t, srv, http.MethodGet, "/payments/missing", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListPaymentEventsHandler(t *testing.T) {
	stub := &stubPaymentService{
		eventsFn: func(ctx context.Context, id string) ([]paymentdomain.EventResponse, error) {
			return []paymentdomain.EventResponse{
				{EventType: "PAYMENT_CREATED", ToStatus: paymentdomain.StatusInit, Payload: json.RawMessage(`{}`)},
			}, nil
		},
	}
	srv := newTestServer(t, stub)

	rec := doJSON(t, srv, http.MethodGet, "/payments/p-1/events", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Data []paymentdomain.EventResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].EventType != "PAYMENT_CREATED" {
		t.Fatalf("unexpected payload: %+v", payload.Data)
	}
}
