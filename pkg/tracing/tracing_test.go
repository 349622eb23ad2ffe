package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func TestInitTracer_Disabled(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := InitTracer(context.Background(), DefaultConfig("storefront-bff"))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.ElementsMatch(t,
		[]string{"traceparent", "tracestate", "baggage"},
		otel.GetTextMapPropagator().Fields())
}

func TestInitTracer_Enabled(t *testing.T) {
	restoreGlobals(t)

	cfg := DefaultConfig("storefront-bff")
	cfg.Enabled = true
	cfg.OTLPEndpoint = "127.0.0.1:0"

	shutdown, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "global provider should be the SDK provider")

	// The endpoint is unreachable; only the call itself matters here.
	_ = shutdown(context.Background())
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, "root:AlwaysOnSampler"},
		{2, "root:AlwaysOnSampler"},
		{0, "root:AlwaysOffSampler"},
		{-1, "root:AlwaysOffSampler"},
		{0.25, "root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, Sampler(tt.rate).Description(), tt.want)
	}
}

func TestTracer(t *testing.T) {
	assert.NotNil(t, Tracer("storefront-remote"))
}
