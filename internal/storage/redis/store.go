package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/database"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

const keyPrefix = "session:"

// Store implements storage.LocalStore for one session using Redis. Every
// key lives under session:<id>: and is refreshed with the configured TTL on
// write.
type Store struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewStore creates a Redis-backed store for sessionID.
func NewStore(client *redis.Client, sessionID string, ttl time.Duration) *Store {
	return &Store{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

// Key returns the namespaced Redis key for a local key.
func (s *Store) Key(key string) string {
	return keyPrefix + s.sessionID + ":" + key
}

// Get retrieves the raw value of key.
func (s *Store) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, end := database.TraceCommand(ctx, "GET", s.Key(key))
	defer func() { end(err) }()

	data, err = s.client.Get(ctx, s.Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("local key", key)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key with the configured TTL.
func (s *Store) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, end := database.TraceCommand(ctx, "SET", s.Key(key))
	defer func() { end(err) }()

	if err = s.client.Set(ctx, s.Key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceCommand(ctx, "DEL", s.Key(key))
	defer func() { end(err) }()

	if err = s.client.Del(ctx, s.Key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
