// Package errors defines the application error taxonomy and its mapping to HTTP status codes.
package errors

import (
	"net/http"

	"miniblog/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
// The returned error still matches the original with errors.Is.
func (e *BaseError) WithDetails(details string) error {
	return &detailedError{
		BaseError: &BaseError{
			httpCode:  e.httpCode,
			errorCode: e.errorCode,
			message:   e.message,
			details:   details,
		},
		origin: e,
	}
}

type detailedError struct {
	*BaseError
	origin *BaseError
}

func (e *detailedError) Is(target error) bool {
	return target == e.origin
}

// Predefined error types
var (
	// Session and token errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Invalid refresh token",
		"",
	)

	ErrTokenRevoked = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
		"Refresh token revoked",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"Refresh token expired",
		"",
	)

	ErrIdentityNotFound = NewBaseError(
		http.StatusNotFound,
		"IDENTITY_NOT_FOUND",
		"User not found",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Invalid or expired access token",
		"",
	)

	ErrStorageUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"STORAGE_UNAVAILABLE",
		"Storage is temporarily unavailable",
		"",
	)

	// Registration errors
	ErrEmailAlreadyInUse = NewBaseError(
		http.StatusConflict,
		"EMAIL_ALREADY_IN_USE",
		"Email already in use",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Failed to process password",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_ERROR",
		"Validation error",
		"",
	)

	// Post-related errors
	ErrPostNotFound = NewBaseError(
		http.StatusNotFound,
		"POST_NOT_FOUND",
		"Post not found",
		"",
	)

	ErrPostNotOwned = NewBaseError(
		http.StatusForbidden,
		"POST_NOT_OWNED",
		"Post does not belong to you",
		"",
	)

	ErrPostTitleRequired = NewBaseError(
		http.StatusBadRequest,
		"POST_TITLE_REQUIRED",
		"Title is required",
		"",
	)

	ErrSlugConflict = NewBaseError(
		http.StatusConflict,
		"POST_SLUG_CONFLICT",
		"A post with the same slug already exists",
		"",
	)

	// Media-related errors
	ErrMediaFileRequired = NewBaseError(
		http.StatusBadRequest,
		"MEDIA_FILE_REQUIRED",
		"File is required",
		"",
	)

	ErrMediaInvalidType = NewBaseError(
		http.StatusBadRequest,
		"MEDIA_INVALID_TYPE",
		"Only image files are allowed",
		"",
	)

	ErrMediaTooLarge = NewBaseError(
		http.StatusRequestEntityTooLarge,
		"MEDIA_TOO_LARGE",
		"File is too large",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// StorageError represents a persistence failure, implementing the AppError interface.
// It matches ErrStorageUnavailable with errors.Is and unwraps to the driver error.
type StorageError struct {
	err     error
	details string
}

// NewStorageError wraps a persistence failure into the StorageUnavailable kind.
func NewStorageError(err error, details string) error {
	return &StorageError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return errors.Wrap(e.err, e.details).Error()
}

// Unwrap returns the underlying driver error.
func (e *StorageError) Unwrap() error {
	return e.err
}

// Is reports whether target is the StorageUnavailable kind.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// HTTPCode returns the HTTP status code
func (e *StorageError) HTTPCode() int {
	return ErrStorageUnavailable.HTTPCode()
}

// ErrorCode returns the business error code
func (e *StorageError) ErrorCode() string {
	return ErrStorageUnavailable.ErrorCode()
}

// Message returns the user-friendly error message
func (e *StorageError) Message() string {
	return ErrStorageUnavailable.Message()
}

// Details returns detailed error information
func (e *StorageError) Details() string {
	return e.details
}
