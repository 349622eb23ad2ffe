// Package storage is the per-session local persistence the anonymous
// wishlist and cart are mirrored to.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

// Keys of the guest mirrors.
const (
	KeyWishlist = "guest_wishlist"
	KeyCart     = "guest_cart"
)

// LocalStore is a session-scoped key-value store. Get returns an error
// wrapping apperrors.ErrNotFound for a missing key.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes key into dst. A missing key leaves dst untouched and
// returns found=false. Backend and decode errors come back as
// LocalStorageFailure.
func LoadJSON(ctx context.Context, s LocalStore, key string, dst any) (found bool, err error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.LocalStorageFailure(key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, apperrors.LocalStorageFailure(key, err)
	}
	return true, nil
}

// Exists reports whether any of keys is present. Backend errors come back as
// LocalStorageFailure.
func Exists(ctx context.Context, s LocalStore, keys ...string) (bool, error) {
	for _, key := range keys {
		_, err := s.Get(ctx, key)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, apperrors.ErrNotFound):
			continue
		default:
			return false, apperrors.LocalStorageFailure(key, err)
		}
	}
	return false, nil
}

// SaveJSON encodes v under key.
func SaveJSON(ctx context.Context, s LocalStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.LocalStorageFailure(key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return apperrors.LocalStorageFailure(key, err)
	}
	return nil
}

// Remove deletes key, wrapping backend errors as LocalStorageFailure.
func Remove(ctx context.Context, s LocalStore, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		return apperrors.LocalStorageFailure(key, err)
	}
	return nil
}
