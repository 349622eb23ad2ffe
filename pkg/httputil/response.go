// Package httputil holds the JSON envelope shared by every API handler.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/pagination"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/validator"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 4 << 20

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
// Recoverable marks failures the storefront shows as a transient notice.
type ErrorResponse struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Fields      map[string]string `json:"fields,omitempty"`
	Recoverable bool              `json:"recoverable,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the envelope and writes it.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// WriteError maps err onto the error envelope. Validation errors carry their
// field messages; AppErrors keep their code and status; bare sentinels map
// through apperrors.HTTPStatus. 5xx responses are logged with the
// request-scoped logger when RequestLogger is mounted, else with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	ctx := r.Context()
	l := logger.FromContext(ctx)
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(ctx)
	recoverable := apperrors.IsRecoverable(err)

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{Error: &ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Fields:    valErr.Fields(),
			RequestID: requestID,
		}})
		return
	}

	status := apperrors.HTTPStatus(err)
	code, message := "INTERNAL_ERROR", "an internal error occurred"

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		code, message = appErr.Code, appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code, message = "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		code, message = "CONFLICT", "operation already in progress"
	case errors.Is(err, apperrors.ErrStaleIdentity):
		code, message = "STALE_IDENTITY", "identity changed while request was in flight"
	case errors.Is(err, apperrors.ErrNetworkFailure):
		code, message = "NETWORK_FAILURE", "remote request failed"
	}

	switch {
	case status >= http.StatusInternalServerError && !recoverable:
		l.ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	case recoverable:
		l.WarnContext(ctx, "recoverable failure",
			slog.String("error", err.Error()),
			slog.String("code", code),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Error: &ErrorResponse{
		Code:        code,
		Message:     message,
		Recoverable: recoverable,
		RequestID:   requestID,
	}})
}

// DecodeJSON decodes a bounded request body into dst and validates it.
// Decoding failures are reported as invalid input.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		return apperrors.InvalidInput(fmt.Sprintf("malformed request body: %v", err))
	}
	return validator.Validate(dst)
}

// PaginatedResponse is a list page with zero-based page numbering.
type PaginatedResponse[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	PageIndex  int  `json:"page_index"`
	PageSize   int  `json:"page_size"`
	PageCount  int  `json:"page_count"`
	HasNext    bool `json:"has_next"`
}

// NewPaginatedResponse builds a page envelope; data is never encoded as null.
func NewPaginatedResponse[T any](data []T, totalCount, pageIndex, pageSize int) PaginatedResponse[T] {
	pages := pagination.PageCount(totalCount, pageSize)
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:       data,
		TotalCount: totalCount,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		PageCount:  pages,
		HasNext:    pageIndex+1 < pages,
	}
}
