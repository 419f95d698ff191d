package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusInit:       {StatusAuthorized, StatusFailed, StatusCanceled},
		StatusAuthorized: {StatusSettled, StatusFailed, StatusCanceled},
		StatusSettled:    {StatusReversed},
		StatusFailed:     {},
		StatusCanceled:   {},
		StatusReversed:   {},
	}

	all := []Status{StatusInit, StatusAuthorized, StatusSettled, StatusFailed, StatusCanceled, StatusReversed}
	for from, targets := range allowed {
		want := map[Status]bool{}
		for _, to := range targets {
			want[to] = true
		}
		for _, to := range all {
			assert.Equal(t, want[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusInit.Terminal())
	assert.False(t, StatusAuthorized.Terminal())
	assert.False(t, StatusSettled.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCanceled.Terminal())
	assert.True(t, StatusReversed.Terminal())
}

func TestParseStatus(t *testing.T) {
	parsed, err := ParseStatus("SETTLED")
	assert.NoError(t, err)
	assert.Equal(t, StatusSettled, parsed)

	_, err = ParseStatus("SHIPPED")
	assert.True(t, errors.Is(err, ErrCorruptStatus))
}
