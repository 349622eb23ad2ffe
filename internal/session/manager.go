// Package session keeps one identity, wishlist and cart per browser session
// and wires identity transitions to the engines explicitly.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/cart"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/identity"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/metrics"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/syncguard"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/wishlist"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/logger"
)

// Session is the state of one browser session.
type Session struct {
	ID        string
	CreatedAt time.Time
	Identity  *identity.Store
	Wishlist  *wishlist.Engine
	Cart      *cart.Engine

	lastSeen atomic.Int64
}

// LastSeen returns the time of the last lookup.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// LocalStoreFactory returns the guest mirror store of a session.
type LocalStoreFactory func(sessionID string) storage.LocalStore

// Manager creates and looks up sessions.
type Manager struct {
	wishlistRemote wishlist.Remote
	cartRemote     cart.Remote
	newLocal       LocalStoreFactory

	wishlistPolicy syncguard.LoginPolicy
	cartPolicy     syncguard.LoginPolicy
	metrics        *metrics.Recorder
	logger         *slog.Logger
	now            func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithLoginPolicies sets the login policy of each engine.
func WithLoginPolicies(wishlistPolicy, cartPolicy syncguard.LoginPolicy) Option {
	return func(m *Manager) {
		m.wishlistPolicy = wishlistPolicy
		m.cartPolicy = cartPolicy
	}
}

// WithMetrics attaches a metrics recorder to every engine.
func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Manager) { m.metrics = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty session manager.
func NewManager(wl wishlist.Remote, cr cart.Remote, newLocal LocalStoreFactory, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		wishlistRemote: wl,
		cartRemote:     cr,
		newLocal:       newLocal,
		wishlistPolicy: syncguard.PolicyAbandon,
		cartPolicy:     syncguard.PolicyAbandon,
		logger:         logger,
		now:            time.Now,
		sessions:       make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new anonymous session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	return m.open(ctx, id, m.newLocal(id))
}

// Lookup returns the session with id. A well-formed id that is not held in
// memory is restored from its guest mirror, so sessions survive a restart;
// without a mirror it is not found.
// An expired login is turned into a logout before the session is returned.
func (m *Manager) Lookup(ctx context.Context, id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidInput("session id must be a UUID")
	}
	id = parsed.String()

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		if s, err = m.restore(ctx, id); err != nil {
			return nil, err
		}
	}

	s.lastSeen.Store(m.now().UnixNano())
	ctx = logger.WithSessionID(ctx, s.ID)
	if expired, err := s.Identity.ExpireIfNeeded(ctx); expired {
		m.logger.InfoContext(ctx, "session token expired, logged out", slog.String("session_id", s.ID))
		if err != nil {
			m.logger.WarnContext(ctx, "logout after expiry incomplete", slog.String("error", err.Error()))
		}
	}
	return s, nil
}

// Remove forgets a session. Its guest mirror stays until the store TTL.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Evict forgets sessions not looked up for idle. It returns how many were dropped.
func (m *Manager) Evict(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// restore reopens a session that has a guest mirror. An unreadable store
// does not prove the mirror absent, so the session is opened anyway.
func (m *Manager) restore(ctx context.Context, id string) (*Session, error) {
	local := m.newLocal(id)
	found, err := storage.Exists(ctx, local, storage.KeyWishlist, storage.KeyCart)
	if err != nil {
		m.logger.WarnContext(ctx, "guest mirror check failed, restoring anyway",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
		found = true
	}
	if !found {
		return nil, apperrors.NotFound("session", id)
	}
	return m.open(ctx, id, local)
}

func (m *Manager) open(ctx context.Context, id string, local storage.LocalStore) (*Session, error) {
	log := m.logger.With(slog.String("session_id", id))

	ids := identity.NewStore(log, identity.WithClock(m.now))
	s := &Session{
		ID:        id,
		CreatedAt: m.now(),
		Identity:  ids,
		Wishlist: wishlist.New(ids, m.wishlistRemote, local, log,
			wishlist.WithLoginPolicy(m.wishlistPolicy),
			wishlist.WithMetrics(m.metrics),
		),
		Cart: cart.New(ids, m.cartRemote, local, log,
			cart.WithLoginPolicy(m.cartPolicy),
			cart.WithMetrics(m.metrics),
		),
	}
	s.lastSeen.Store(s.CreatedAt.UnixNano())

	// Engines react to identity changes in a fixed order.
	ids.OnTransition(s.Wishlist.HandleTransition)
	ids.OnTransition(s.Cart.HandleTransition)

	if err := errors.Join(s.Wishlist.Start(ctx), s.Cart.Start(ctx)); err != nil {
		log.WarnContext(ctx, "session hydration incomplete", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = s
	log.InfoContext(ctx, "session opened")
	return s, nil
}
