// Package remote talks to the storefront REST API on behalf of a session.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httpclient"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/tracing"
)

const maxResponseBytes = 4 << 20

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is the shared transport of the typed remote clients.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		tracer:  tracing.Tracer("storefront-remote"),
	}
}

// call performs one request and returns the response body of a 2xx reply.
// Transport failures and non-2xx replies come back as NetworkFailure.
func (c *Client) call(ctx context.Context, op, method, path, token string, payload any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "remote."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return nil, apperrors.NetworkFailure(op, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !httpclient.IsSuccess(resp.StatusCode) {
		remoteErr := httpclient.ParseResponseError(resp, op)
		span.RecordError(remoteErr)
		span.SetStatus(codes.Error, "non-2xx response")
		return nil, apperrors.NetworkFailure(op, remoteErr)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.NetworkFailure(op, fmt.Errorf("read body: %w", err))
	}
	return data, nil
}

// malformed logs a payload that could not be normalised. The caller falls
// back to an empty list.
func (c *Client) malformed(ctx context.Context, op string, err error) {
	c.logger.WarnContext(ctx, "malformed remote response, using empty list",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}

func itemPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}
