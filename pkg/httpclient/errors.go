package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

// RemoteErrorResponse covers the error bodies the storefront API is known to
// send: a nested {"error":{"code","message"}} envelope or a flat
// {"success":false,"message":"..."} object.
type RemoteErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, remoteName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", remoteName, resp.StatusCode, err)
	}

	var remote RemoteErrorResponse
	if json.Unmarshal(bodyBytes, &remote) == nil {
		switch {
		case remote.Error != nil:
			return mapRemoteError(resp.StatusCode, remote.Error.Code, remote.Error.Message, remoteName)
		case remote.Message != "":
			return mapRemoteError(resp.StatusCode, "", remote.Message, remoteName)
		}
	}

	return mapRemoteError(resp.StatusCode, "", strings.TrimSpace(string(bodyBytes)), remoteName)
}

func mapRemoteError(status int, code, message, remoteName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", remoteName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(remoteName, message)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperrors.Unauthorized(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    nonEmpty(code, "SERVICE_UNAVAILABLE"),
			Message: qualifiedMsg,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	default:
		return &apperrors.AppError{
			Code:    nonEmpty(code, "REMOTE_ERROR"),
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// IsSuccess reports whether the status code is 2xx.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
