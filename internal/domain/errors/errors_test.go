package errors

import (
	"net/http"
	"testing"

	"miniblog/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WrapMessageKeepsKind(t *testing.T) {
	err := ErrTokenRevoked.WrapMessage("refresh rejected")

	assert.True(t, errors.Is(err, ErrTokenRevoked))
	assert.False(t, errors.Is(err, ErrInvalidToken))

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
	assert.Equal(t, "TOKEN_REVOKED", appErr.ErrorCode())
}

func TestBaseError_WithDetails(t *testing.T) {
	err := ErrValidationFailed.WithDetails("email: must be a valid email")

	assert.True(t, errors.Is(err, ErrValidationFailed))

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "email: must be a valid email", appErr.Details())
	assert.Empty(t, ErrValidationFailed.Details())
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := errors.Wrap(NewStorageError(cause, "failed to find refresh token"), "refresh")

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrInvalidToken))

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode())
	assert.Equal(t, "STORAGE_UNAVAILABLE", appErr.ErrorCode())
	assert.Contains(t, err.Error(), "connection refused")
}
