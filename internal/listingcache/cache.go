// Package listingcache caches rendered listings (products, customers,
// orders) between mutations. Each mutating operation invalidates the
// listings it touches, so reads after a write observe fresh data without
// any global revalidation mechanism.
package listingcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached listing.
type Key string

// The listing identities served by the API.
const (
	KeyProducts  Key = "products"
	KeyCustomers Key = "customers"
	KeyOrders    Key = "orders"
)

// FillFunc produces a fresh value for a listing when the cache misses.
type FillFunc func(ctx context.Context) (any, error)

// Cache is a mutation-invalidated listing cache. Concurrent misses on the
// same key share one fill via singleflight; a fill error is returned to
// all waiters and nothing is stored.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]any
	group   singleflight.Group
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[Key]any),
	}
}

// Get returns the cached value for key, filling it with fill on a miss.
func (c *Cache) Get(ctx context.Context, key Key, fill FillFunc) (any, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		// Re-check: another caller may have filled between the RUnlock
		// and the singleflight entry.
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := fill(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Invalidate evicts the given listings. The next Get for each key runs
// its fill again.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}
