package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	plain := NotFound("session not found")
	assert.Equal(t, "session not found", plain.Error())

	cause := errors.New("connection refused")
	wrapped := Wrap(cause, ErrCodeInternal, "storage unavailable")
	assert.Equal(t, "storage unavailable: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(cause, ErrCodeInternal, "something failed")

	assert.ErrorIs(t, wrapped, cause)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("outer: %w", wrapped), &appErr)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{name: "not found match", err: NotFound("x"), check: IsNotFound, want: true},
		{name: "conflict match", err: Conflict("x"), check: IsConflict, want: true},
		{name: "validation match", err: ValidationField("role", "unknown role"), check: IsValidation, want: true},
		{name: "unauthorized match", err: Unauthorized("x"), check: IsUnauthorized, want: true},
		{name: "forbidden match", err: Forbidden("x"), check: IsForbidden, want: true},
		{name: "wrong code", err: NotFound("x"), check: IsConflict, want: false},
		{name: "plain error", err: errors.New("x"), check: IsNotFound, want: false},
		{name: "nil error", err: nil, check: IsNotFound, want: false},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", Forbidden("x")), check: IsForbidden, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
