package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

// WindowCounter counts hits per key over a fixed window and reports the
// remaining window time.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, remaining time.Duration, err error)
}

type redisWindowCounter struct {
	client *goredis.Client
}

func NewRedisWindowCounter(client *goredis.Client) WindowCounter {
	return &redisWindowCounter{client: client}
}

func (rc *redisWindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	pipe := rc.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

type memoryWindowCounter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

// NewMemoryWindowCounter is the in-process fallback used when redis is not
// configured. Fixed window semantics match the redis implementation.
func NewMemoryWindowCounter() WindowCounter {
	return &memoryWindowCounter{windows: make(map[string]*memoryWindow)}
}

func (mc *memoryWindowCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	now := time.Now()
	w, ok := mc.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		mc.windows[key] = w
	}
	w.count++
	return w.count, time.Until(w.resetAt), nil
}

type RateLimitConfig struct {
	Limit  int64
	Window time.Duration
}

// RateLimit applies a fixed window per client IP across every route it is
// mounted on. Counter errors fail open: a broken backend must not take the
// API down.
func RateLimit(log *logger.Logger, counter WindowCounter, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg.Limit = 1000
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	limiterLog := log.With("middleware", "RateLimit")
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		count, remaining, err := counter.Incr(c.Request.Context(), key, cfg.Window)
		if err != nil {
			limiterLog.Warn("Rate limit counter failed; allowing request", "error", err)
			c.Next()
			return
		}
		if count > cfg.Limit {
			retryAfter := int(remaining / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			response.RespondRateLimited(c, retryAfter)
			c.Abort()
			return
		}
		c.Next()
	}
}
