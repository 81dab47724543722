package geocode

import (
	"context"

	"buurtmarkt/internal/domain/entities"
)

// TieredCache consults a local cache first and a shared cache second,
// copying shared hits into the local tier.
type TieredCache struct {
	local  Cache
	shared Cache
}

func NewTieredCache(local, shared Cache) *TieredCache {
	return &TieredCache{local: local, shared: shared}
}

func (c *TieredCache) Get(ctx context.Context, key string) (entities.GeocodeResult, bool) {
	if result, ok := c.local.Get(ctx, key); ok {
		return result, true
	}
	result, ok := c.shared.Get(ctx, key)
	if !ok {
		return entities.GeocodeResult{}, false
	}
	c.local.Put(ctx, key, result)
	return result, true
}

func (c *TieredCache) Put(ctx context.Context, key string, result entities.GeocodeResult) {
	c.local.Put(ctx, key, result)
	c.shared.Put(ctx, key, result)
}
