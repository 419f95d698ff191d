package domain

import "fmt"

// Status is the payment lifecycle state.
//
// Allowed transitions:
//
//	INIT       -> AUTHORIZED | FAILED | CANCELED
//	AUTHORIZED -> SETTLED | FAILED | CANCELED
//	SETTLED    -> REVERSED
//	FAILED, CANCELED, REVERSED are terminal.
type Status string

const (
	StatusInit       Status = "INIT"
	StatusAuthorized Status = "AUTHORIZED"
	StatusSettled    Status = "SETTLED"
	StatusFailed     Status = "FAILED"
	StatusCanceled   Status = "CANCELED"
	StatusReversed   Status = "REVERSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInit, StatusAuthorized, StatusSettled, StatusFailed, StatusCanceled, StatusReversed:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	switch s {
	case StatusFailed, StatusCanceled, StatusReversed:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusInit:
		return target == StatusAuthorized || target == StatusFailed || target == StatusCanceled
	case StatusAuthorized:
		return target == StatusSettled || target == StatusFailed || target == StatusCanceled
	case StatusSettled:
		return target == StatusReversed
	default:
		return false
	}
}

// ParseStatus validates a stored status value. Unknown values mean the row was
// written by something outside the closed enum and must not be trusted.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrCorruptStatus, value)
	}
	return status, nil
}
