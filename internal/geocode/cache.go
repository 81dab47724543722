package geocode

import (
	"context"
	"sync"

	"buurtmarkt/internal/domain/entities"
)

// DefaultMaxEntries caps the in-memory cache.
const DefaultMaxEntries = 500

// Cache memoizes geocoder results under the normalized address key
// (entities.AddressQuery.Key). Entries are never updated or invalidated:
// the same address always geocodes to the same coordinate, so Put is
// insert-if-absent and a second Put for a key is a no-op.
type Cache interface {
	Get(ctx context.Context, key string) (entities.GeocodeResult, bool)
	Put(ctx context.Context, key string, result entities.GeocodeResult)
}

// MemoryCache is a process-local Cache. It is safe for concurrent use and
// stops accepting new keys once it holds maxEntries.
//
// Go Learning Note — sync.RWMutex:
// Lookups vastly outnumber inserts, so Get takes the shared read lock and
// only Put takes the exclusive write lock.
type MemoryCache struct {
	mu         sync.RWMutex
	maxEntries int
	entries    map[string]entities.GeocodeResult
}

// NewMemoryCache creates an empty cache. maxEntries <= 0 selects
// DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		entries:    make(map[string]entities.GeocodeResult),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (entities.GeocodeResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.entries[key]
	return result, ok
}

func (c *MemoryCache) Put(ctx context.Context, key string, result entities.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}
	if len(c.entries) >= c.maxEntries {
		return
	}
	c.entries[key] = result
}

// Len returns the number of cached addresses.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
