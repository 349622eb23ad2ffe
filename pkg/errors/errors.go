package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal error")
	ErrConflict          = errors.New("conflict")
	ErrServiceUnavail    = errors.New("service unavailable")
	ErrNetworkFailure    = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrLocalStorage      = errors.New("local storage failure")
	ErrStaleIdentity     = errors.New("identity changed while request was in flight")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NetworkFailure creates a 502 error for a remote call that was rejected or timed out.
// The wrapped cause stays reachable through errors.Is / errors.As.
func NetworkFailure(op string, cause error) *AppError {
	return &AppError{
		Code:    "NETWORK_FAILURE",
		Message: fmt.Sprintf("%s failed", op),
		Status:  http.StatusBadGateway,
		Err:     errors.Join(ErrNetworkFailure, cause),
	}
}

// MalformedResponse creates an error for a remote payload of unexpected shape.
func MalformedResponse(message string) *AppError {
	return &AppError{
		Code:    "MALFORMED_RESPONSE",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     ErrMalformedResponse,
	}
}

// LocalStorageFailure creates an error for an unreadable or unwritable local key.
func LocalStorageFailure(key string, cause error) *AppError {
	return &AppError{
		Code:    "LOCAL_STORAGE_FAILURE",
		Message: fmt.Sprintf("local key %q", key),
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrLocalStorage, cause),
	}
}

// StaleIdentity creates an error for a response dropped after an identity change.
func StaleIdentity(op string) *AppError {
	return &AppError{
		Code:    "STALE_IDENTITY",
		Message: fmt.Sprintf("%s result discarded", op),
		Status:  http.StatusConflict,
		Err:     ErrStaleIdentity,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// IsRecoverable reports whether err is one of the failures the sync engines
// surface as a transient notification rather than a hard failure.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNetworkFailure) ||
		errors.Is(err, ErrLocalStorage) ||
		errors.Is(err, ErrStaleIdentity) ||
		errors.Is(err, ErrConflict)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrStaleIdentity):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNetworkFailure), errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
