package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"not found", NewResourceNotFoundError("Connection not found"), ErrResourceNotFound, "Connection not found"},
		{"conflict", NewConflictError("Already connected"), ErrConflict, "Already connected"},
		{"forbidden", NewForbiddenError("Admins cannot connect"), ErrPermissionDenied, "Admins cannot connect"},
		{"bad request", NewBadRequestError("Cannot message yourself"), ErrBadRequest, "Cannot message yourself"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())

			wrapped := fmt.Errorf("service: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, MessageOf(wrapped, "fallback"))
		})
	}
}

func TestIsMatchesAnyListedError(t *testing.T) {
	t.Parallel()

	err := NewConflictError("dup")
	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict))
	assert.False(t, Is(err, ErrResourceNotFound, ErrBadRequest))
}

func TestMessageOfFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fallback", MessageOf(errors.New("raw"), "fallback"))
	assert.Equal(t, "fallback", MessageOf(&CustomError{Err: ErrConflict}, "fallback"))
}

func TestCustomErrorFallsBackToWrappedMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "conflict", (&CustomError{Err: ErrConflict}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}
