package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"todoservice/internal/core/port"
)

// Cache keeps payloads in process. Entries are copied on the way in and out
// so callers cannot mutate what is stored.
type Cache struct {
	store *cache.Cache
}

func NewCache(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{store: cache.New(defaultTTL, cleanupInterval)}
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.store.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	payload := value.([]byte)

	return append([]byte(nil), payload...), nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

func (c *Cache) Close() error {
	c.store.Flush()
	return nil
}
