package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage/memory"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyWishlist, []string{"a", "b"}))

	var ids []string
	found, err := storage.LoadJSON(ctx, s, storage.KeyWishlist, &ids)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestLoadJSON_Missing(t *testing.T) {
	ids := []string{"untouched"}
	found, err := storage.LoadJSON(context.Background(), memory.New(), storage.KeyWishlist, &ids)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{"untouched"}, ids)
}

func TestLoadJSON_Corrupt(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Set(ctx, storage.KeyCart, []byte("{not json")))

	var lines []map[string]any
	found, err := storage.LoadJSON(ctx, s, storage.KeyCart, &lines)
	assert.True(t, found)
	assert.ErrorIs(t, err, apperrors.ErrLocalStorage)
}

type failingStore struct{ memory.Store }

func (*failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	found, err := storage.Exists(ctx, s, storage.KeyWishlist, storage.KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, storage.KeyCart, []byte("[]")))
	found, err = storage.Exists(ctx, s, storage.KeyWishlist, storage.KeyCart)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = storage.Exists(ctx, &failingStore{}, storage.KeyWishlist)
	assert.ErrorIs(t, err, apperrors.ErrLocalStorage)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Set(ctx, storage.KeyCart, []byte("[]")))
	require.NoError(t, storage.Remove(ctx, s, storage.KeyCart))
	assert.False(t, s.Has(storage.KeyCart))
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	buf := []byte(`["a"]`)
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[2] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))
}
