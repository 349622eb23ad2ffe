// Package category caches the remote category list for a bounded time.
package category

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
)

// Lister fetches the full category list.
type Lister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// Cache holds the category list for ttl after each fetch. Concurrent misses
// share one fetch. Invalidate must be called wherever categories change.
type Cache struct {
	lister Lister
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu        sync.RWMutex
	items     []domain.Category
	fetchedAt time.Time
	valid     bool
	// epoch advances on every Invalidate; a fetch started in an older epoch
	// is returned to its callers but not stored.
	epoch uint64

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates an empty cache.
func NewCache(lister Lister, ttl time.Duration, logger *slog.Logger, opts ...Option) *Cache {
	c := &Cache{
		lister: lister,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached list, fetching it when empty or expired. A failed
// fetch is returned as-is and the stale entry is not served.
func (c *Cache) Get(ctx context.Context) ([]domain.Category, error) {
	if items, ok := c.fresh(); ok {
		return items, nil
	}

	v, err, _ := c.group.Do("categories", func() (any, error) {
		if items, ok := c.fresh(); ok {
			return items, nil
		}
		c.mu.RLock()
		epoch := c.epoch
		c.mu.RUnlock()

		items, err := c.lister.List(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		stored := c.epoch == epoch
		if stored {
			c.items = slices.Clone(items)
			c.fetchedAt = c.now()
			c.valid = true
		}
		c.mu.Unlock()

		c.logger.DebugContext(ctx, "category cache refreshed",
			slog.Int("count", len(items)),
			slog.Bool("stored", stored),
		)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Category)), nil
}

// Invalidate drops the cached list. A fetch already in flight is not stored,
// and later callers do not join it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.valid = false
	c.epoch++
	c.mu.Unlock()
	c.group.Forget("categories")
}

func (c *Cache) fresh() ([]domain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return slices.Clone(c.items), true
}
