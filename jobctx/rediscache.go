package jobctx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStoreRegistry decorates a StoreRegistry with a Redis-backed
// cache of resolved store metadata (index, enabled flag, mount path),
// grounded on the teacher's redis.client Get/Set/TTL API. Only the
// metadata is cached: collective.Group communicators are not
// serializable, so a name whose last lookup succeeded is always resolved
// through the underlying registry again; only a cached miss is answered
// from Redis without asking the underlying registry.
type CachedStoreRegistry struct {
	underlying StoreRegistry
	client     *redis.Client
	ttl        time.Duration
	prefix     string
}

// NewCachedStoreRegistry wraps underlying with a Redis cache. ttl <= 0
// disables caching (every call passes through).
func NewCachedStoreRegistry(underlying StoreRegistry, client *redis.Client, ttl time.Duration) *CachedStoreRegistry {
	return &CachedStoreRegistry{
		underlying: underlying,
		client:     client,
		ttl:        ttl,
		prefix:     "scrred:store:",
	}
}

// Resolve implements StoreRegistry. It first checks Redis for a cached
// miss and returns ok=false if one is found; otherwise it asks the
// underlying registry (the Group it returns can't be cached) and
// refreshes the Redis cache entry with the outcome.
func (c *CachedStoreRegistry) Resolve(name string) (StoreDescriptor, bool) {
	if c.client != nil && c.ttl > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		found, cached, err := c.get(ctx, name)
		cancel()
		if err == nil && found && cached == "miss" {
			return StoreDescriptor{}, false
		}
	}

	desc, ok := c.underlying.Resolve(name)

	if c.client != nil && c.ttl > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if ok {
			_ = c.set(ctx, name, fmt.Sprintf("hit:%d:%t:%s", desc.Index, desc.Enabled, desc.MountPath))
		} else {
			_ = c.set(ctx, name, "miss")
		}
		cancel()
	}

	return desc, ok
}

func (c *CachedStoreRegistry) get(ctx context.Context, name string) (bool, string, error) {
	s, err := c.client.Get(ctx, c.prefix+name).Result()
	if err == redis.Nil {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, s, nil
}

func (c *CachedStoreRegistry) set(ctx context.Context, name, value string) error {
	return c.client.Set(ctx, c.prefix+name, value, c.ttl).Err()
}
