package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	. "todoservice/internal/adapter/http/helper"
	"todoservice/internal/config"
	"todoservice/internal/core/telemetry"
)

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// RateLimiter is a fixed-window counter per client IP held in process memory.
type RateLimiter struct {
	cache    *cache.Cache
	requests int
	window   time.Duration
	logger   *otelzap.Logger
	metrics  *telemetry.AppMetrics
	mutex    sync.Mutex
	now      func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig, logger *otelzap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:    cache.New(cfg.Window, 2*cfg.Window),
		requests: cfg.Requests,
		window:   cfg.Window,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		key := "rate_limit:" + c.ClientIP()
		allowed, remaining, resetTime := rl.take(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitDecision(ctx, path, false)
			}

			rl.logger.Ctx(ctx).Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", rl.requests),
				zap.Duration("window", rl.window))

			retryAfter := int(resetTime.Sub(rl.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			SendTooManyRequests(c, "Too many requests", retryAfter)
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitDecision(ctx, path, true)
		}

		c.Next()
	}
}

func (rl *RateLimiter) take(key string) (bool, int, time.Time) {
	now := rl.now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if item, found := rl.cache.Get(key); found {
		entry := item.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= rl.requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, entry.ResetTime.Sub(now))

			return true, rl.requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(rl.window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, rl.window)

	return true, rl.requests - 1, resetTime
}
