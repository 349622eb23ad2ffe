package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultRedisConfig()
	cfg.Addr = mr.Addr()

	client, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, RedisChecker(client)(context.Background()))

	mr.Close()
	assert.Error(t, RedisChecker(client)(context.Background()))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := DefaultRedisConfig()
	cfg.Addr = addr

	_, err := NewRedisClient(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
