// Package wishlist owns a session's canonical set of saved product ids and
// keeps it in sync with whichever backing store the identity selects: the
// local guest mirror when anonymous, the remote API when authenticated.
package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/identity"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/metrics"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/syncguard"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

const engineName = "wishlist"

// Remote is the server-side wishlist.
type Remote interface {
	List(ctx context.Context, token string) ([]string, error)
	Add(ctx context.Context, token, id string) error
	Remove(ctx context.Context, token, id string) error
}

// Identity is the part of the identity store the engine reads.
type Identity interface {
	Current() identity.Credentials
	Valid(gen uint64) bool
}

// Engine is the wishlist of one session.
type Engine struct {
	mu   sync.RWMutex
	set  map[string]struct{}
	mode identity.State

	identity Identity
	remote   Remote
	local    storage.LocalStore
	pending  *syncguard.Pending
	policy   syncguard.LoginPolicy
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLoginPolicy selects what happens to the guest list at login.
func WithLoginPolicy(p syncguard.LoginPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an empty engine. Call Start to hydrate it.
func New(id Identity, remote Remote, local storage.LocalStore, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		set:      make(map[string]struct{}),
		identity: id,
		remote:   remote,
		local:    local,
		pending:  syncguard.NewPending(),
		policy:   syncguard.PolicyAbandon,
		logger:   logger.With(slog.String("engine", engineName)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start hydrates the set from the store the current identity selects.
func (e *Engine) Start(ctx context.Context) error {
	return e.Refresh(ctx)
}

// Refresh rebuilds the set from the active backing store. A remote failure
// leaves the set unchanged. An unreadable guest mirror counts as empty.
func (e *Engine) Refresh(ctx context.Context) error {
	creds := e.identity.Current()
	var err error
	if creds.Authenticated() {
		err = e.hydrateRemote(ctx, creds)
	} else {
		err = e.hydrateLocal(ctx, creds)
	}
	e.metrics.Operation(engineName, "refresh", metrics.ResultOf(err))
	return err
}

// Contains reports whether id is saved.
func (e *Engine) Contains(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.set[id]
	return ok
}

// Count returns the number of saved ids.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.set)
}

// Items returns the saved ids in ascending order.
func (e *Engine) Items() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedIDs(e.set)
}

// Mode returns the identity state the set was last hydrated for.
func (e *Engine) Mode() identity.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Pending reports whether a mutation of id is in flight.
func (e *Engine) Pending(id string) bool {
	return e.pending.InFlight(id)
}

// Add saves id. Adding a saved id still performs the storage round trip.
func (e *Engine) Add(ctx context.Context, id string) error {
	err := e.mutate(ctx, "add", id, e.remote.Add, func(set map[string]struct{}) {
		set[id] = struct{}{}
	})
	e.metrics.Operation(engineName, "add", metrics.ResultOf(err))
	return err
}

// Remove unsaves id. Removing an absent id still performs the round trip.
func (e *Engine) Remove(ctx context.Context, id string) error {
	err := e.mutate(ctx, "remove", id, e.remote.Remove, func(set map[string]struct{}) {
		delete(set, id)
	})
	e.metrics.Operation(engineName, "remove", metrics.ResultOf(err))
	return err
}

// Toggle removes id when saved and adds it otherwise. A toggle arriving
// while another toggle of the same id is in flight joins it, so rapid
// repeats change the state once. It returns whether id ends up saved.
func (e *Engine) Toggle(ctx context.Context, id string) (bool, error) {
	shared, err := e.pending.Do(id, func() error {
		if e.Contains(id) {
			return e.Remove(ctx, id)
		}
		return e.Add(ctx, id)
	})
	if shared {
		e.metrics.Operation(engineName, "toggle", metrics.ResultJoined)
	} else {
		e.metrics.Operation(engineName, "toggle", metrics.ResultOf(err))
	}
	return e.Contains(id), err
}

// Clear empties the set and deletes the guest mirror. The remote wishlist is
// not touched.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.set = make(map[string]struct{})
	e.mu.Unlock()

	err := storage.Remove(ctx, e.local, storage.KeyWishlist)
	e.metrics.Operation(engineName, "clear", metrics.ResultOf(err))
	return err
}

// HandleTransition routes an identity transition to OnLogin or OnLogout.
func (e *Engine) HandleTransition(ctx context.Context, t identity.Transition) error {
	if t.To == identity.Authenticated {
		return e.OnLogin(ctx, t)
	}
	return e.OnLogout(ctx, t)
}

// OnLogin rebuilds the set from remote. Under the merge policy the guest
// ids missing remotely are added first. The guest mirror is deleted once it
// has been abandoned or fully merged.
func (e *Engine) OnLogin(ctx context.Context, t identity.Transition) error {
	creds := e.identity.Current()
	if !creds.Authenticated() || creds.Generation != t.Generation {
		e.metrics.Stale(engineName)
		return apperrors.StaleIdentity("wishlist login")
	}

	e.mu.Lock()
	e.set = make(map[string]struct{})
	e.mode = identity.Authenticated
	e.mu.Unlock()

	var errs []error
	if e.policy == syncguard.PolicyMerge {
		errs = append(errs, e.mergeGuest(ctx, creds))
	}
	if err := e.hydrateRemote(ctx, creds); err != nil {
		errs = append(errs, err)
	}
	err := errors.Join(errs...)
	if err == nil || e.policy == syncguard.PolicyAbandon {
		if rmErr := storage.Remove(ctx, e.local, storage.KeyWishlist); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}

	e.logger.InfoContext(ctx, "wishlist rehydrated after login",
		slog.String("policy", string(e.policy)),
		slog.Int("count", e.Count()),
	)
	e.metrics.Operation(engineName, "login", metrics.ResultOf(err))
	return err
}

// OnLogout clears the set and deletes the guest mirror, unconditionally.
func (e *Engine) OnLogout(ctx context.Context, _ identity.Transition) error {
	e.mu.Lock()
	e.set = make(map[string]struct{})
	e.mode = identity.Anonymous
	e.mu.Unlock()

	err := storage.Remove(ctx, e.local, storage.KeyWishlist)
	e.metrics.Operation(engineName, "logout", metrics.ResultOf(err))
	return err
}

type remoteCall func(ctx context.Context, token, id string) error

func (e *Engine) mutate(ctx context.Context, op, id string, call remoteCall, apply func(map[string]struct{})) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}
	creds := e.identity.Current()
	if creds.State != e.Mode() {
		e.metrics.Stale(engineName)
		return apperrors.StaleIdentity("wishlist " + op)
	}
	if !creds.Authenticated() {
		return e.mutateLocal(ctx, apply)
	}

	done := e.pending.Track(id)
	e.metrics.PendingInc(engineName)
	err := call(ctx, creds.Token, id)
	e.metrics.PendingDec(engineName)
	done()
	if err != nil {
		e.logger.WarnContext(ctx, "remote wishlist mutation failed",
			slog.String("op", op),
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.identity.Valid(creds.Generation) {
		e.metrics.Stale(engineName)
		e.logger.InfoContext(ctx, "dropping wishlist response after identity change",
			slog.String("op", op),
			slog.String("product_id", id),
		)
		return apperrors.StaleIdentity("wishlist " + op)
	}
	apply(e.set)
	return nil
}

// mutateLocal writes the guest mirror first and commits the set only once
// the write succeeded.
func (e *Engine) mutateLocal(ctx context.Context, apply func(map[string]struct{})) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make(map[string]struct{}, len(e.set)+1)
	for id := range e.set {
		next[id] = struct{}{}
	}
	apply(next)
	if err := storage.SaveJSON(ctx, e.local, storage.KeyWishlist, sortedIDs(next)); err != nil {
		return err
	}
	e.set = next
	return nil
}

func (e *Engine) hydrateLocal(ctx context.Context, creds identity.Credentials) error {
	var ids []string
	if _, err := storage.LoadJSON(ctx, e.local, storage.KeyWishlist, &ids); err != nil {
		e.logger.WarnContext(ctx, "guest wishlist unreadable, starting empty", slog.String("error", err.Error()))
		ids = nil
	}
	return e.replace(ctx, creds, identity.Anonymous, ids)
}

func (e *Engine) hydrateRemote(ctx context.Context, creds identity.Credentials) error {
	e.metrics.PendingInc(engineName)
	ids, err := e.remote.List(ctx, creds.Token)
	e.metrics.PendingDec(engineName)
	if err != nil {
		e.logger.WarnContext(ctx, "remote wishlist fetch failed", slog.String("error", err.Error()))
		return err
	}
	return e.replace(ctx, creds, identity.Authenticated, ids)
}

func (e *Engine) replace(ctx context.Context, creds identity.Credentials, mode identity.State, ids []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.identity.Valid(creds.Generation) {
		e.metrics.Stale(engineName)
		e.logger.InfoContext(ctx, "dropping wishlist hydration after identity change")
		return apperrors.StaleIdentity("wishlist refresh")
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	e.set = set
	e.mode = mode
	return nil
}

func (e *Engine) mergeGuest(ctx context.Context, creds identity.Credentials) error {
	var guest []string
	if _, err := storage.LoadJSON(ctx, e.local, storage.KeyWishlist, &guest); err != nil {
		e.logger.WarnContext(ctx, "guest wishlist unreadable, nothing to merge", slog.String("error", err.Error()))
		return nil
	}
	if len(guest) == 0 {
		return nil
	}
	remote, err := e.remote.List(ctx, creds.Token)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range guest {
		if id == "" || slices.Contains(remote, id) {
			continue
		}
		if err := e.remote.Add(ctx, creds.Token, id); err != nil {
			errs = append(errs, err)
		}
	}
	e.logger.InfoContext(ctx, "merged guest wishlist",
		slog.Int("guest_count", len(guest)),
		slog.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
