// Package identity tracks whether a storefront session is anonymous or
// authenticated and notifies registered listeners on every transition.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/syncguard"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

// State is the identity mode of a session.
type State int

// Identity states.
const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// User is the authenticated user record as handed over at login.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Credentials is a consistent snapshot of the identity used for one remote call.
type Credentials struct {
	State      State
	Token      string
	UserID     string
	Generation uint64
}

// Authenticated reports whether the snapshot carries a usable token.
func (c Credentials) Authenticated() bool {
	return c.State == Authenticated
}

// Transition describes one identity change.
type Transition struct {
	From       State
	To         State
	User       User
	Generation uint64
}

// Listener reacts to a transition. Listeners run synchronously in
// registration order; their errors are joined and returned to the caller of
// Login or Logout.
type Listener func(ctx context.Context, t Transition) error

// Store holds the identity of one session.
type Store struct {
	mu        sync.RWMutex
	token     string
	user      User
	expiresAt time.Time
	gen       syncguard.Generation
	listeners []Listener

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an anonymous identity.
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTransition registers fn for every subsequent transition.
func (s *Store) OnTransition(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// IsAuthenticated reports whether the session holds an unexpired token.
func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

// Token returns the bearer token, or "" when anonymous or expired.
func (s *Store) Token() string {
	return s.Current().Token
}

// User returns the logged-in user, or the zero User when anonymous.
func (s *Store) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Generation returns the identity generation.
func (s *Store) Generation() uint64 {
	return s.gen.Current()
}

// Valid reports whether gen is still the current identity generation.
func (s *Store) Valid(gen uint64) bool {
	return s.gen.Valid(gen)
}

// Current returns a snapshot of the identity. An expired token is reported
// as anonymous.
func (s *Store) Current() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := Credentials{Generation: s.gen.Current()}
	if s.token != "" && !s.expiredLocked() {
		c.State = Authenticated
		c.Token = s.token
		c.UserID = s.user.ID
	}
	return c
}

// Login switches the session to authenticated and runs the listeners. The
// token's subject and expiry are read without verifying the signature; the
// remote API remains the authority on validity. A missing user ID is taken
// from the subject.
func (s *Store) Login(ctx context.Context, token string, user User) error {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return apperrors.InvalidInput("token is not a valid JWT")
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
		if !s.now().Before(expiresAt) {
			return apperrors.Unauthorized("token has expired")
		}
	}
	if user.ID == "" {
		user.ID = claims.Subject
	}

	s.mu.Lock()
	from := s.stateLocked()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
	t := Transition{From: from, To: Authenticated, User: user, Generation: s.gen.Advance()}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "identity transition",
		slog.String("from", from.String()),
		slog.String("to", Authenticated.String()),
		slog.String("user_id", user.ID),
		slog.Uint64("generation", t.Generation),
	)
	return notify(ctx, listeners, t)
}

// Logout switches the session to anonymous and runs the listeners. Logging
// out an anonymous session is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil
	}
	from := Authenticated
	user := s.user
	s.token = ""
	s.user = User{}
	s.expiresAt = time.Time{}
	t := Transition{From: from, To: Anonymous, User: user, Generation: s.gen.Advance()}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "identity transition",
		slog.String("from", from.String()),
		slog.String("to", Anonymous.String()),
		slog.String("user_id", user.ID),
		slog.Uint64("generation", t.Generation),
	)
	return notify(ctx, listeners, t)
}

// ExpireIfNeeded logs out a session whose token has expired. It reports
// whether a logout happened.
func (s *Store) ExpireIfNeeded(ctx context.Context) (bool, error) {
	s.mu.RLock()
	expired := s.token != "" && s.expiredLocked()
	s.mu.RUnlock()
	if !expired {
		return false, nil
	}
	return true, s.Logout(ctx)
}

func (s *Store) stateLocked() State {
	if s.token != "" && !s.expiredLocked() {
		return Authenticated
	}
	return Anonymous
}

func (s *Store) expiredLocked() bool {
	return !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
}

func notify(ctx context.Context, listeners []Listener, t Transition) error {
	var errs []error
	for _, fn := range listeners {
		if err := fn(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
