package cache

import (
	"context"
	"fmt"

	"todoservice/internal/adapter/cache/memory"
	"todoservice/internal/adapter/cache/redis"
	"todoservice/internal/config"
	"todoservice/internal/core/port"
)

// New returns the cache selected by cfg.Driver, or nil for "none".
func New(ctx context.Context, cfg config.CacheConfig) (port.CacheRepository, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "memory":
		return memory.NewCache(cfg.TTL, 2*cfg.TTL), nil
	case "redis":
		return redis.NewCache(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
