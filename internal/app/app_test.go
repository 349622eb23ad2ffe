package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/config"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httpclient"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/middleware"
)

func TestNewApp_ServesGuestSessionsFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/categories" {
			_, _ = io.WriteString(w, `{"data":[{"_id":"1","name":"Fruit"},{"_id":"2","name":"Old","isActive":false}]}`)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(api.Close)

	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("REMOTE_API_BASE_URL", api.URL+"/api")
	cfg, err := config.Load()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	a, err := newApp(cfg, logger.Discard(), reg, reg)
	require.NoError(t, err)
	h := a.httpServer.Handler

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/session", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := rec.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, id)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/wishlist/p1", nil)
	req.Header.Set(middleware.SessionHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := mr.Get("session:" + id + ":guest_wishlist")
	require.NoError(t, err)
	assert.JSONEq(t, `["p1"]`, raw)
	assert.Greater(t, mr.TTL("session:"+id+":guest_wishlist"), time.Duration(0))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fruit")
	assert.NotContains(t, rec.Body.String(), "Old")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_sync_operations_total")

	assert.NoError(t, a.Shutdown())
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	cfg, err := config.Load()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	a, err := newApp(cfg, logger.Discard(), reg, reg)

	assert.Nil(t, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

type failingDoer struct{}

func (failingDoer) Do(context.Context, *http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestBreakerCheck(t *testing.T) {
	cfg := httpclient.DefaultCircuitBreakerConfig("test-breaker")
	cfg.MinRequests = 1
	cfg.FailureRatio = 0.1
	cb := httpclient.NewCircuitBreakerClient(failingDoer{}, cfg, logger.Discard())
	check := breakerCheck(cb)

	require.NoError(t, check(context.Background()))

	_, err := cb.Get(context.Background(), "http://remote.invalid/")
	require.Error(t, err)

	err = check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test-breaker")
}
