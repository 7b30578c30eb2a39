// Package cache holds short-lived copies of rarely changing reads, such as the
// employee directory consulted when attributing tasks.
package cache

import (
	"context"
	"sync"
	"time"
)

// Loader produces the value for a key on a cache miss.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// TTLCache is a goroutine-safe map-backed cache with a single TTL for every
// entry. Expired entries are dropped lazily on access.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
	// gen counts invalidations per key; a load started before one is not stored
	gen map[K]uint64

	// loads de-duplicates concurrent misses on the same key
	loadMu sync.Mutex
	loads  map[K]*call[V]
}

type call[V any] struct {
	done  chan struct{}
	value V
	err   error
}

var now = time.Now

// New returns a cache whose entries live for ttl. A ttl <= 0 never expires.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
		gen:   make(map[K]uint64),
		loads: make(map[K]*call[V]),
	}
}

// Get returns the value and whether it was present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !ok || e.expired(now()) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache's TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: exp}
	c.mu.Unlock()
}

// Invalidate drops key so the next read goes to the loader. A load already
// in flight for key still answers its waiters but its result is not cached.
func (c *TTLCache[K, V]) Invalidate(key K) {
	c.loadMu.Lock()
	delete(c.loads, key)
	c.mu.Lock()
	delete(c.items, key)
	c.gen[key]++
	c.mu.Unlock()
	c.loadMu.Unlock()
}

// Len returns the number of non-expired entries.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := now()
	for k, e := range c.items {
		if e.expired(ts) {
			delete(c.items, k)
		}
	}
	return len(c.items)
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Concurrent misses on one key share a single load. Load errors are
// returned and never cached.
func (c *TTLCache[K, V]) GetOrLoad(ctx context.Context, key K, load Loader[K, V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.loadMu.Lock()
	if v, ok := c.Get(key); ok {
		c.loadMu.Unlock()
		return v, nil
	}
	if inflight, ok := c.loads[key]; ok {
		c.loadMu.Unlock()
		select {
		case <-inflight.done:
			return inflight.value, inflight.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
	cl := &call[V]{done: make(chan struct{})}
	c.loads[key] = cl
	c.mu.RLock()
	gen := c.gen[key]
	c.mu.RUnlock()
	c.loadMu.Unlock()

	cl.value, cl.err = load(ctx, key)
	if cl.err == nil {
		c.setIfGen(key, cl.value, gen)
	}

	c.loadMu.Lock()
	if c.loads[key] == cl {
		delete(c.loads, key)
	}
	c.loadMu.Unlock()
	close(cl.done)

	return cl.value, cl.err
}

func (c *TTLCache[K, V]) setIfGen(key K, value V, gen uint64) {
	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.mu.Lock()
	if c.gen[key] == gen {
		c.items[key] = entry[V]{value: value, expiresAt: exp}
	}
	c.mu.Unlock()
}

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}
