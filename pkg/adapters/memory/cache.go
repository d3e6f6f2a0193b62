package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
)

type entry struct {
	resp    *domain.Response
	created time.Time
	touched time.Time
}

// Cache implements ports.Cache in memory.
// Safe for concurrent use. Expired entries are dropped lazily on access,
// by Prune and by the janitor started with StartJanitor.
type Cache struct {
	data map[string]*entry
	mu   sync.Mutex
	exp  ports.Expiration
	now  func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithExpiration overrides the default expiration policy.
func WithExpiration(exp ports.Expiration) Option {
	return func(c *Cache) {
		c.exp = exp
	}
}

// WithClock sets the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a new in-memory cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]*entry),
		exp:  ports.DefaultExpiration(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Cache = (*Cache)(nil)

// Get returns a copy of the cached response and refreshes its sliding expiration.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	now := c.now()
	if c.expired(e, now) {
		delete(c.data, key)
		return nil, domain.ErrCacheMiss
	}
	e.touched = now
	return e.resp.Clone(), nil
}

// Set stores a copy of resp.
func (c *Cache) Set(ctx context.Context, key string, resp *domain.Response) error {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = &entry{resp: resp.Clone(), created: now, touched: now}
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Prune drops every expired entry and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.data {
		if c.expired(e, now) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Prune every interval in the background until the
// returned stop function is called. Stop waits for the janitor to exit and
// may be called more than once. A non-positive interval starts nothing.
func (c *Cache) StartJanitor(interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.Prune()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}

// Len returns the number of stored entries, including expired ones not yet pruned.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *Cache) expired(e *entry, now time.Time) bool {
	deadline := c.exp.Deadline(e.created, e.touched)
	return !deadline.IsZero() && !now.Before(deadline)
}
