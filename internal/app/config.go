package app

import (
	"time"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/envutil"
)

type Config struct {
	Port string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	AllowedOrigins []string

	RateLimitMax    int
	RateLimitWindow time.Duration

	StatsRollupInterval time.Duration
}

func LoadConfig() Config {
	return Config{
		Port:                envutil.String("PORT", "8080"),
		JWTSecretKey:        envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:      envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour),
		AllowedOrigins:      envutil.List("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RateLimitMax:        envutil.Int("RATE_LIMIT_MAX", 1000),
		RateLimitWindow:     envutil.Seconds("RATE_LIMIT_WINDOW", 15*time.Minute),
		StatsRollupInterval: envutil.Seconds("STATS_ROLLUP_INTERVAL", 15*time.Minute),
	}
}
