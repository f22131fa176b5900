package hooks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrFetchCanceled is returned by Fetch when the request was cancelled or
// its key invalidated while it was in flight.  Its result is discarded.
var ErrFetchCanceled = errors.New("fetch canceled")

// Cache is the client side query cache.  Keys are procedure names
// followed by the JSON encoded input, so invalidating a procedure name
// drops every cached input of that procedure.
type Cache interface {
	// Get returns the cached value for key.
	Get(key string) (any, bool)
	// Set replaces the cached value for key.
	Set(key string, value any)
	// Invalidate drops every entry whose key starts with prefix and
	// cancels their in-flight fetches.
	Invalidate(prefix string)
	// CancelInFlight cancels the fetch running for key, if any.  The
	// cached value is left untouched.
	CancelInFlight(key string)
	// Fetch returns the cached value while it is fresh, or calls fn and
	// caches its result.  A result whose fetch was cancelled is never
	// written.
	Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error)
}

// DefaultGCTime is how long an entry nobody reads stays in a MemoryCache.
const DefaultGCTime = 5 * time.Minute

type entry struct {
	value   any
	written time.Time
	used    time.Time
}

// inflight is one running fetch.  done is closed once value and err are
// final; later Fetch calls of the same key wait on it.
type inflight struct {
	cancel context.CancelFunc
	done   chan struct{}
	value  any
	err    error
}

// MemoryCache is a Cache backed by a map.  It is safe for concurrent use.
//
// Entries older than the stale time are refetched by Fetch; Get still
// returns them.  Entries not read or written for the GC time are
// evicted.
type MemoryCache struct {
	mu        sync.Mutex
	values    map[string]*entry
	inflight  map[string]*inflight
	now       func() time.Time
	expires   bool
	staleTime time.Duration
	gcTime    time.Duration
	lastSweep time.Time
}

// CacheOption configures a MemoryCache.
type CacheOption func(*MemoryCache)

// WithStaleTime makes Fetch refetch entries written more than d ago.  A
// zero d refetches on every Fetch.  Without this option entries stay
// fresh until invalidated.
func WithStaleTime(d time.Duration) CacheOption {
	return func(c *MemoryCache) {
		c.expires = true
		c.staleTime = d
	}
}

// WithGCTime sets how long an unused entry is kept.  A non-positive d
// keeps entries until invalidated.
func WithGCTime(d time.Duration) CacheOption {
	return func(c *MemoryCache) { c.gcTime = d }
}

// WithCacheClock replaces the clock used for staleness and eviction.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(opts ...CacheOption) *MemoryCache {
	c := &MemoryCache{
		values:   make(map[string]*entry),
		inflight: make(map[string]*inflight),
		now:      time.Now,
		gcTime:   DefaultGCTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.values[key]
	if !ok {
		return nil, false
	}
	e.used = c.now()
	return e.value, true
}

func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value)
}

// store writes key and sweeps unused entries at most once per GC time.
// The caller holds mu.
func (c *MemoryCache) store(key string, value any) {
	now := c.now()
	c.values[key] = &entry{value: value, written: now, used: now}
	if c.gcTime <= 0 || now.Sub(c.lastSweep) < c.gcTime {
		return
	}
	c.lastSweep = now
	for k, e := range c.values {
		if now.Sub(e.used) >= c.gcTime {
			delete(c.values, k)
		}
	}
}

func (c *MemoryCache) fresh(e *entry, now time.Time) bool {
	return !c.expires || now.Sub(e.written) < c.staleTime
}

func (c *MemoryCache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
	for k, f := range c.inflight {
		if strings.HasPrefix(k, prefix) {
			f.cancel()
			delete(c.inflight, k)
		}
	}
}

func (c *MemoryCache) CancelInFlight(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.inflight[key]; ok {
		f.cancel()
		delete(c.inflight, key)
	}
}

// Fetch returns a fresh cached value, joins the fetch already running for
// key, or starts one.  Only a fetch that is still registered when fn
// returns may write; one cancelled or invalidated meanwhile reports
// ErrFetchCanceled to every caller waiting on it.
func (c *MemoryCache) Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	now := c.now()
	if e, ok := c.values[key]; ok && c.fresh(e, now) {
		e.used = now
		c.mu.Unlock()
		return e.value, nil
	}
	if f, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.value, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fctx, cancel := context.WithCancel(ctx)
	f := &inflight{cancel: cancel, done: make(chan struct{})}
	c.inflight[key] = f
	c.mu.Unlock()

	v, err := fn(fctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()
	current := c.inflight[key] == f
	if current {
		delete(c.inflight, key)
	}
	switch {
	case !current:
		f.err = ErrFetchCanceled
	case err != nil:
		f.err = err
	default:
		f.value = v
		c.store(key, v)
	}
	close(f.done)
	return f.value, f.err
}
