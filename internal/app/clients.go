package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shelfcast/shelfcast-backend/internal/clients/mailer"
	"github.com/shelfcast/shelfcast-backend/internal/clients/redisx"
	"github.com/shelfcast/shelfcast-backend/internal/clients/studio"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/envutil"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

type Clients struct {
	Studio studio.Client
	Mailer mailer.Mailer

	// Redis is nil when REDIS_ADDR is unset; rate limiting then falls back
	// to the in-process counter.
	Redis *goredis.Client

	// Bucket is nil when GCS_BUCKET_NAME is unset; upload relay routes are
	// not mounted in that case.
	Bucket services.BucketService
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	studioClient, err := studio.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init studio client: %w", err)
	}

	var bucket services.BucketService
	if envutil.String("GCS_BUCKET_NAME", "") != "" {
		bucket, err = services.NewBucketService(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init bucket service: %w", err)
		}
	} else {
		log.Warn("GCS_BUCKET_NAME not set; upload relay disabled")
	}

	return Clients{
		Studio: studioClient,
		Mailer: mailer.New(log),
		Redis:  redisx.New(log),
		Bucket: bucket,
	}, nil
}
