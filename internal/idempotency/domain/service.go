package domain

import (
	"context"

	"gorm.io/gorm"
)

type Service interface {
	// Admit resolves the record for token (creating it when absent) and
	// decides whether the caller may perform the protected side effect. A
	// blank token gets a generated one, which disables cross-request
	// deduplication by construction.
	Admit(ctx context.Context, token, requestHash string) (Decision, error)
	// Commit records the terminal outcome for a token the caller admitted.
	// db lets the success path run inside the caller's transaction.
	Commit(ctx context.Context, db *gorm.DB, token string, outcome Outcome, code int, body []byte) error
}
