package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
)

func mintToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestStore_StartsAnonymous(t *testing.T) {
	s := NewStore(logger.Discard())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Equal(t, User{}, s.User())
	assert.Equal(t, uint64(0), s.Generation())
}

func TestStore_LoginLogout(t *testing.T) {
	s := NewStore(logger.Discard())
	var seen []Transition
	s.OnTransition(func(_ context.Context, tr Transition) error {
		seen = append(seen, tr)
		return nil
	})

	tok := mintToken(t, "user-42", time.Now().Add(time.Hour))
	require.NoError(t, s.Login(context.Background(), tok, User{Email: "a@example.com"}))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, tok, s.Token())
	assert.Equal(t, "user-42", s.User().ID)
	c := s.Current()
	assert.Equal(t, Authenticated, c.State)
	assert.Equal(t, "user-42", c.UserID)

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())

	require.Len(t, seen, 2)
	assert.Equal(t, Transition{From: Anonymous, To: Authenticated, User: User{ID: "user-42", Email: "a@example.com"}, Generation: 1}, seen[0])
	assert.Equal(t, Anonymous, seen[1].To)
	assert.Equal(t, uint64(2), seen[1].Generation)
	assert.False(t, s.Valid(1))
	assert.True(t, s.Valid(2))
}

func TestStore_LogoutWhenAnonymousIsNoop(t *testing.T) {
	s := NewStore(logger.Discard())
	called := false
	s.OnTransition(func(context.Context, Transition) error {
		called = true
		return nil
	})
	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, called)
	assert.Equal(t, uint64(0), s.Generation())
}

func TestStore_ListenersRunInOrderAndJoinErrors(t *testing.T) {
	s := NewStore(logger.Discard())
	var order []string
	errFirst := errors.New("first")
	s.OnTransition(func(context.Context, Transition) error {
		order = append(order, "wishlist")
		return errFirst
	})
	s.OnTransition(func(context.Context, Transition) error {
		order = append(order, "cart")
		return nil
	})

	err := s.Login(context.Background(), mintToken(t, "u", time.Time{}), User{})
	assert.ErrorIs(t, err, errFirst)
	assert.Equal(t, []string{"wishlist", "cart"}, order)
	assert.True(t, s.IsAuthenticated(), "a failing listener does not undo the transition")
}

func TestStore_RejectsMalformedToken(t *testing.T) {
	s := NewStore(logger.Discard())
	err := s.Login(context.Background(), "not-a-jwt", User{ID: "u"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.False(t, s.IsAuthenticated())
}

func TestStore_RejectsExpiredToken(t *testing.T) {
	s := NewStore(logger.Discard())
	err := s.Login(context.Background(), mintToken(t, "u", time.Now().Add(-time.Minute)), User{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.False(t, s.IsAuthenticated())
}

func TestStore_ExpiryMakesSessionAnonymous(t *testing.T) {
	now := time.Now()
	s := NewStore(logger.Discard(), WithClock(func() time.Time { return now }))

	var last Transition
	s.OnTransition(func(_ context.Context, tr Transition) error {
		last = tr
		return nil
	})

	require.NoError(t, s.Login(context.Background(), mintToken(t, "u", now.Add(time.Minute)), User{}))
	expired, err := s.ExpireIfNeeded(context.Background())
	require.NoError(t, err)
	assert.False(t, expired)

	now = now.Add(2 * time.Minute)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())

	expired, err = s.ExpireIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Equal(t, Authenticated, last.From)
	assert.Equal(t, Anonymous, last.To)
}
