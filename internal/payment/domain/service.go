package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreatePaymentRequest, idempotencyKey string) (CreatePaymentResponse, error)

	Authorize(ctx context.Context, paymentID string) (PaymentResponse, error)
	Settle(ctx context.Context, paymentID string) (PaymentResponse, error)
	Cancel(ctx context.Context, paymentID string) (PaymentResponse, error)
	Fail(ctx context.Context, paymentID string) (PaymentResponse, error)
	Reverse(ctx context.Context, paymentID string) (PaymentResponse, error)

	Get(ctx context.Context, paymentID string) (PaymentResponse, error)
	Events(ctx context.Context, paymentID string) ([]EventResponse, error)
}
