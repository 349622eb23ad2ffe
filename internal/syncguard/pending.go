// Package syncguard holds the two guards the sync engines put around remote
// calls: a per-id pending table and an identity generation counter.
package syncguard

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Pending coalesces concurrent operations on the same id. A second caller
// arriving while the first is in flight joins it and receives its result
// instead of starting an operation of its own.
type Pending struct {
	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]int
}

// NewPending creates an empty pending table.
func NewPending() *Pending {
	return &Pending{inflight: make(map[string]int)}
}

// Do runs fn for id unless an operation for id is already running, in which
// case it waits for that one. shared reports whether the result was joined.
func (p *Pending) Do(id string, fn func() error) (shared bool, err error) {
	_, err, shared = p.group.Do(id, func() (any, error) {
		p.mark(id)
		defer p.unmark(id)
		return nil, fn()
	})
	return shared, err
}

// Track marks id as in flight without coalescing, for operations that must
// each run. Call the returned func when the operation finishes.
func (p *Pending) Track(id string) (done func()) {
	p.mark(id)
	var once sync.Once
	return func() { once.Do(func() { p.unmark(id) }) }
}

// InFlight reports whether an operation for id is running.
func (p *Pending) InFlight(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight[id] > 0
}

// Len returns the number of ids with an operation in flight.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

func (p *Pending) mark(id string) {
	p.mu.Lock()
	p.inflight[id]++
	p.mu.Unlock()
}

func (p *Pending) unmark(id string) {
	p.mu.Lock()
	p.inflight[id]--
	if p.inflight[id] <= 0 {
		delete(p.inflight, id)
	}
	p.mu.Unlock()
}

// Generation counts identity transitions. A response is applied only when
// the generation captured before the request is still current.
type Generation struct {
	n atomic.Uint64
}

// Current returns the current generation.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// Advance bumps the generation and returns the new value.
func (g *Generation) Advance() uint64 {
	return g.n.Add(1)
}

// Valid reports whether gen is still the current generation.
func (g *Generation) Valid(gen uint64) bool {
	return g.n.Load() == gen
}
