// Package cart owns a session's cart lines. It follows the same identity
// driven backing-store rules as the wishlist, with quantities in place of
// set membership.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/identity"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/metrics"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/syncguard"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

const engineName = "cart"

// Remote is the server-side cart.
type Remote interface {
	List(ctx context.Context, token string) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, token, id string, n int) error
	Remove(ctx context.Context, token, id string) error
}

// Identity is the part of the identity store the engine reads.
type Identity interface {
	Current() identity.Credentials
	Valid(gen uint64) bool
}

// Engine is the cart of one session.
type Engine struct {
	mu    sync.RWMutex
	lines map[string]int
	mode  identity.State

	// writeMu serializes mutations so read-modify-write quantity changes
	// never interleave.
	writeMu sync.Mutex

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

// WithLoginPolicy selects what happens to the guest cart at login.
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
		lines:    make(map[string]int),
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

// Start hydrates the cart from the store the current identity selects.
func (e *Engine) Start(ctx context.Context) error {
	return e.Refresh(ctx)
}

// Refresh rebuilds the cart from the active backing store.
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

// Quantity returns the quantity of id, 0 when absent.
func (e *Engine) Quantity(id string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lines[id]
}

// Contains reports whether id has a line.
func (e *Engine) Contains(id string) bool {
	return e.Quantity(id) > 0
}

// Count returns the number of distinct lines.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.lines)
}

// TotalQuantity sums the quantities of every line.
func (e *Engine) TotalQuantity() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	total := 0
	for _, n := range e.lines {
		total += n
	}
	return total
}

// Lines returns the cart lines ordered by product id.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedLines(e.lines)
}

// Mode returns the identity state the cart was last hydrated for.
func (e *Engine) Mode() identity.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Pending reports whether a mutation of id is in flight.
func (e *Engine) Pending(id string) bool {
	return e.pending.InFlight(id)
}

// Add changes the quantity of id by delta. The result is clamped to
// [0, domain.MaxLineQuantity]; reaching 0 removes the line.
func (e *Engine) Add(ctx context.Context, id string, delta int) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	err := e.setQuantityLocked(ctx, "add", id, domain.AddQuantity(e.Quantity(id), delta))
	e.metrics.Operation(engineName, "add", metrics.ResultOf(err))
	return err
}

// SetQuantity sets the quantity of id, clamped to [0, domain.MaxLineQuantity].
// Zero is the same as Remove.
func (e *Engine) SetQuantity(ctx context.Context, id string, n int) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	err := e.setQuantityLocked(ctx, "set_quantity", id, n)
	e.metrics.Operation(engineName, "set_quantity", metrics.ResultOf(err))
	return err
}

// Remove drops the line for id. Removing an absent line still performs the
// storage round trip.
func (e *Engine) Remove(ctx context.Context, id string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	err := e.setQuantityLocked(ctx, "remove", id, 0)
	e.metrics.Operation(engineName, "remove", metrics.ResultOf(err))
	return err
}

// Clear empties the cart and deletes the guest mirror without calling remote.
func (e *Engine) Clear(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	e.lines = make(map[string]int)
	e.mu.Unlock()

	err := storage.Remove(ctx, e.local, storage.KeyCart)
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

// OnLogin rebuilds the cart from remote. Under the merge policy each guest
// line is added on top of the remote quantity first.
func (e *Engine) OnLogin(ctx context.Context, t identity.Transition) error {
	creds := e.identity.Current()
	if !creds.Authenticated() || creds.Generation != t.Generation {
		e.metrics.Stale(engineName)
		return apperrors.StaleIdentity("cart login")
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	e.lines = make(map[string]int)
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
		if rmErr := storage.Remove(ctx, e.local, storage.KeyCart); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}

	e.logger.InfoContext(ctx, "cart rehydrated after login",
		slog.String("policy", string(e.policy)),
		slog.Int("lines", e.Count()),
	)
	e.metrics.Operation(engineName, "login", metrics.ResultOf(err))
	return err
}

// OnLogout clears the cart and deletes the guest mirror, unconditionally.
// It does not wait for in-flight mutations; their responses are dropped as
// stale.
func (e *Engine) OnLogout(ctx context.Context, _ identity.Transition) error {
	e.mu.Lock()
	e.lines = make(map[string]int)
	e.mode = identity.Anonymous
	e.mu.Unlock()

	err := storage.Remove(ctx, e.local, storage.KeyCart)
	e.metrics.Operation(engineName, "logout", metrics.ResultOf(err))
	return err
}

// setQuantityLocked must be called with writeMu held.
func (e *Engine) setQuantityLocked(ctx context.Context, op, id string, n int) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}
	n = domain.ClampQuantity(n)

	creds := e.identity.Current()
	if creds.State != e.Mode() {
		e.metrics.Stale(engineName)
		return apperrors.StaleIdentity("cart " + op)
	}
	if !creds.Authenticated() {
		return e.setLocal(ctx, id, n)
	}

	done := e.pending.Track(id)
	e.metrics.PendingInc(engineName)
	var err error
	if n == 0 {
		err = e.remote.Remove(ctx, creds.Token, id)
	} else {
		err = e.remote.SetQuantity(ctx, creds.Token, id, n)
	}
	e.metrics.PendingDec(engineName)
	done()
	if err != nil {
		e.logger.WarnContext(ctx, "remote cart mutation failed",
			slog.String("op", op),
			slog.String("product_id", id),
			slog.Int("quantity", n),
			slog.String("error", err.Error()),
		)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.identity.Valid(creds.Generation) {
		e.metrics.Stale(engineName)
		e.logger.InfoContext(ctx, "dropping cart response after identity change",
			slog.String("op", op),
			slog.String("product_id", id),
		)
		return apperrors.StaleIdentity("cart " + op)
	}
	applyQuantity(e.lines, id, n)
	return nil
}

// setLocal writes the guest mirror first and commits only on success.
func (e *Engine) setLocal(ctx context.Context, id string, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make(map[string]int, len(e.lines)+1)
	for k, v := range e.lines {
		next[k] = v
	}
	applyQuantity(next, id, n)
	if err := storage.SaveJSON(ctx, e.local, storage.KeyCart, sortedLines(next)); err != nil {
		return err
	}
	e.lines = next
	return nil
}

func (e *Engine) hydrateLocal(ctx context.Context, creds identity.Credentials) error {
	var lines []domain.CartLine
	if _, err := storage.LoadJSON(ctx, e.local, storage.KeyCart, &lines); err != nil {
		e.logger.WarnContext(ctx, "guest cart unreadable, starting empty", slog.String("error", err.Error()))
		lines = nil
	}
	return e.replace(ctx, creds, identity.Anonymous, lines)
}

func (e *Engine) hydrateRemote(ctx context.Context, creds identity.Credentials) error {
	e.metrics.PendingInc(engineName)
	lines, err := e.remote.List(ctx, creds.Token)
	e.metrics.PendingDec(engineName)
	if err != nil {
		e.logger.WarnContext(ctx, "remote cart fetch failed", slog.String("error", err.Error()))
		return err
	}
	return e.replace(ctx, creds, identity.Authenticated, lines)
}

func (e *Engine) replace(ctx context.Context, creds identity.Credentials, mode identity.State, lines []domain.CartLine) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.identity.Valid(creds.Generation) {
		e.metrics.Stale(engineName)
		e.logger.InfoContext(ctx, "dropping cart hydration after identity change")
		return apperrors.StaleIdentity("cart refresh")
	}
	next := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		applyQuantity(next, l.ProductID, next[l.ProductID]+l.Quantity)
	}
	e.lines = next
	e.mode = mode
	return nil
}

func (e *Engine) mergeGuest(ctx context.Context, creds identity.Credentials) error {
	var guest []domain.CartLine
	if _, err := storage.LoadJSON(ctx, e.local, storage.KeyCart, &guest); err != nil {
		e.logger.WarnContext(ctx, "guest cart unreadable, nothing to merge", slog.String("error", err.Error()))
		return nil
	}
	if len(guest) == 0 {
		return nil
	}
	remote, err := e.remote.List(ctx, creds.Token)
	if err != nil {
		return err
	}
	current := make(map[string]int, len(remote))
	for _, l := range remote {
		current[l.ProductID] = domain.AddQuantity(current[l.ProductID], l.Quantity)
	}

	var errs []error
	for _, l := range guest {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		n := domain.AddQuantity(current[l.ProductID], l.Quantity)
		if err := e.remote.SetQuantity(ctx, creds.Token, l.ProductID, n); err != nil {
			errs = append(errs, err)
		}
	}
	e.logger.InfoContext(ctx, "merged guest cart",
		slog.Int("guest_lines", len(guest)),
		slog.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

func applyQuantity(lines map[string]int, id string, n int) {
	n = domain.ClampQuantity(n)
	if n == 0 {
		delete(lines, id)
		return
	}
	lines[id] = n
}

func sortedLines(lines map[string]int) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for id, n := range lines {
		out = append(out, domain.CartLine{ProductID: id, Quantity: n})
	}
	slices.SortFunc(out, func(a, b domain.CartLine) int { return strings.Compare(a.ProductID, b.ProductID) })
	return out
}
