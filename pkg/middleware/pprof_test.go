package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
)

func TestIPAllowlist(t *testing.T) {
	tests := []struct {
		name   string
		cidrs  []string
		remote string
		want   int
	}{
		{"loopback allowed", []string{"127.0.0.0/8"}, "127.0.0.1:12345", http.StatusOK},
		{"outside range", []string{"10.0.0.0/8"}, "192.168.1.1:12345", http.StatusForbidden},
		{"second of several", []string{"10.0.0.0/8", "172.16.0.0/12"}, "172.16.5.5:1", http.StatusOK},
		{"invalid cidr skipped", []string{"not-a-cidr", "127.0.0.0/8"}, "127.0.0.1:1", http.StatusOK},
		{"ipv6", []string{"::1/128"}, "[::1]:1234", http.StatusOK},
		{"no port", []string{"127.0.0.0/8"}, "127.0.0.1", http.StatusOK},
		{"mapped ipv4", []string{"127.0.0.0/8"}, "[::ffff:127.0.0.1]:1", http.StatusOK},
		{"empty list denies", nil, "127.0.0.1:1", http.StatusForbidden},
		{"garbage address", []string{"0.0.0.0/0"}, "somewhere", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := IPAllowlist(tt.cidrs, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestIPAllowlist_DeniedBody(t *testing.T) {
	h := IPAllowlist(nil, logger.Discard())(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "FORBIDDEN", body["error"]["code"])
}

func TestRegisterPprof(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, []string{"127.0.0.0/8"}, logger.Discard())

	for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline", "/debug/pprof/symbol", "/debug/pprof/heap"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "127.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
