package domain

import "errors"

var (
	// ErrTokenConflict: the key was reused with a different request payload.
	ErrTokenConflict = errors.New("idempotency_token_conflict")
	// ErrReplayFailed: a previous attempt under this key failed terminally.
	ErrReplayFailed = errors.New("idempotency_replay_failed")
	// ErrInProgress: another call holds this key and has not finished.
	ErrInProgress = errors.New("idempotency_in_progress")
	// ErrAlreadyCommitted: Commit was called for a key that already reached a
	// terminal outcome. Only the admitting winner may commit.
	ErrAlreadyCommitted = errors.New("idempotency_already_committed")
)
