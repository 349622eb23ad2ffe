package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_NestedEnvelope(t *testing.T) {
	resp := makeResponse(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"product not found"}}`)
	err := ParseResponseError(resp, "wishlist-api")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestParseResponseError_FlatMessage(t *testing.T) {
	resp := makeResponse(http.StatusUnauthorized, `{"success":false,"message":"Not authorized, token failed"}`)
	err := ParseResponseError(resp, "wishlist-api")

	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.Contains(t, err.Error(), "token failed")
}

func TestParseResponseError_Unstructured(t *testing.T) {
	resp := makeResponse(http.StatusTeapot, "short and stout")
	err := ParseResponseError(resp, "cart-api")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusTeapot, appErr.Status)
	assert.Equal(t, "REMOTE_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "short and stout")
}

func TestParseResponseError_Mapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusBadRequest, apperrors.ErrInvalidInput},
		{http.StatusUnprocessableEntity, apperrors.ErrInvalidInput},
		{http.StatusConflict, apperrors.ErrConflict},
		{http.StatusForbidden, apperrors.ErrUnauthorized},
		{http.StatusServiceUnavailable, apperrors.ErrServiceUnavail},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := ParseResponseError(makeResponse(tt.status, `{"message":"nope"}`), "api")
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(http.StatusOK))
	assert.True(t, IsSuccess(http.StatusNoContent))
	assert.False(t, IsSuccess(http.StatusMultipleChoices))
	assert.False(t, IsSuccess(http.StatusBadRequest))
}
