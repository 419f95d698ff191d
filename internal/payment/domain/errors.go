package domain

import "errors"

var (
	ErrNotFound          = errors.New("payment_not_found")
	ErrInvalidTransition = errors.New("invalid_status_transition")

	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidDescription   = errors.New("invalid_description")
	ErrAmountLimitExceeded  = errors.New("amount_limit_exceeded")
	ErrMethodNotAllowed     = errors.New("payment_method_not_allowed")

	// ErrCorruptStatus flags a stored status outside the closed enum. It maps
	// to a storage failure, not a client error.
	ErrCorruptStatus = errors.New("corrupt_payment_status")
)
