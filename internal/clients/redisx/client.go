package redisx

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/envutil"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

// New connects to redis using env config. Returns nil (not an error) when
// REDIS_ADDR is unset so callers can fall back to in-process state.
func New(log *logger.Logger) *goredis.Client {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		log.Info("REDIS_ADDR not set; redis-backed features fall back to in-process state")
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis ping failed; continuing with in-process fallback", "addr", addr, "error", err)
		return nil
	}
	log.Info("Redis connected", "addr", addr)
	return client
}
