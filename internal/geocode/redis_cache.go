package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"buurtmarkt/internal/domain/entities"
)

const redisKeyPrefix = "geocode:"

// writeTimeout bounds a shared-tier write that no longer follows the request.
const writeTimeout = 2 * time.Second

// RedisCache shares geocode results between server instances. It is a
// volatile tier: entries expire after ttl, and any Redis failure is logged
// and treated as a miss so lookups fall through to the geocoder.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log.Named("geocode_redis")}
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (entities.GeocodeResult, bool) {
	raw, err := c.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return entities.GeocodeResult{}, false
	}

	var result entities.GeocodeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn("discarding malformed cache entry", zap.String("key", key), zap.Error(err))
		return entities.GeocodeResult{}, false
	}
	if !result.Coordinate.Valid() {
		c.log.Warn("discarding cache entry with invalid coordinate", zap.String("key", key))
		return entities.GeocodeResult{}, false
	}
	return result, true
}

// Put stores the entry with SETNX so an existing entry is never replaced.
// The write is detached from ctx cancellation and bounded by writeTimeout.
func (c *RedisCache) Put(ctx context.Context, key string, result entities.GeocodeResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	raw, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.SetNX(ctx, redisKey(key), raw, c.ttl).Err(); err != nil {
		c.log.Warn("redis setnx failed", zap.String("key", key), zap.Error(err))
	}
}
