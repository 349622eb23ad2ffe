package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("test-svc", "info", w)
}

// logOnce runs req through RequestLogger with a handler that logs a single
// line, and returns that line decoded.
func logOnce(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := RequestLogger(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_IncludesCorrelationID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-test-123")
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx))

	assert.Equal(t, "corr-test-123", out["correlation_id"])
	assert.Equal(t, "handler log", out["msg"])
}

func TestRequestLogger_SessionIDFromHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(SessionHeader, "3f1c7f0e-5c1a-4a57-9a3e-0d6f0a0c2b11")

	out := logOnce(t, req)
	assert.Equal(t, "3f1c7f0e-5c1a-4a57-9a3e-0d6f0a0c2b11", out["session_id"])
}

func TestRequestLogger_ContextSessionIDWins(t *testing.T) {
	ctx := logger.WithSessionID(context.Background(), "from-context")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	req.Header.Set(SessionHeader, "from-header")

	out := logOnce(t, req)
	assert.Equal(t, "from-context", out["session_id"])
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestRequestLogger_OmitsUnsetFields(t *testing.T) {
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotContains(t, out, "session_id")
	assert.NotContains(t, out, "user_id")
	assert.NotContains(t, out, "correlation_id")
}

func TestRequestLogging_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	handler := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	t.Run("reuses inbound id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/p1", nil)
		req.Header.Set(CorrelationHeader, "abc-123")
		req.Header.Set(SessionHeader, "sess-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(CorrelationHeader))

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "http request", out["msg"])
		assert.Equal(t, float64(http.StatusAccepted), out["status"])
		assert.Equal(t, "sess-1", out["session_id"])
		assert.Equal(t, "INFO", out["level"])
	})

	t.Run("generates id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(CorrelationHeader))
	})
}

func TestRequestLogging_ServerErrorLoggedAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "ERROR", out["level"])
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "/explode")
}

func TestRecovery_AbortHandlerIsRepanicked(t *testing.T) {
	handler := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
