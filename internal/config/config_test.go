package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/syncguard"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 10*time.Second, cfg.RemoteTimeout())
	assert.Equal(t, 720*time.Hour, cfg.LocalTTL())
	assert.Equal(t, 5*time.Minute, cfg.CategoryCacheTTL())
	assert.Equal(t, domain.TierOnSite, cfg.PriceTier())
	assert.Equal(t, syncguard.PolicyAbandon, cfg.WishlistPolicy())
	assert.Equal(t, syncguard.PolicyAbandon, cfg.CartPolicy())
	assert.Equal(t, "€", cfg.CurrencySymbol)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.PprofAllowedCIDRs)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_PRICE_TIER", "delivery")
	t.Setenv("WISHLIST_LOGIN_POLICY", "merge")
	t.Setenv("REMOTE_TIMEOUT_MS", "2500")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, domain.TierDelivery, cfg.PriceTier())
	assert.Equal(t, syncguard.PolicyMerge, cfg.WishlistPolicy())
	assert.Equal(t, 2500*time.Millisecond, cfg.RemoteTimeout())
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("BFF_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidPolicy(t *testing.T) {
	t.Setenv("CART_LOGIN_POLICY", "union")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CART_LOGIN_POLICY")
}

func TestLoad_InvalidPriceTier(t *testing.T) {
	t.Setenv("DEFAULT_PRICE_TIER", "wholesale")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_PRICE_TIER")
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
}

func TestLoad_ListsAndSessionIdle(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com,https://admin.example.com")
	t.Setenv("PPROF_ALLOWED_CIDRS", "10.0.0.0/8")
	t.Setenv("SESSION_IDLE_MINUTES", "5")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.PprofAllowedCIDRs)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdle())
}

func TestLoad_InvalidFailureRatio(t *testing.T) {
	t.Setenv("CB_FAILURE_RATIO", "1.5")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CB_FAILURE_RATIO")
}
