package jobs

import (
	"context"
	"time"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

// StatsRollupWorker periodically snapshots platform counters into the daily
// statistics row. The upsert keys on the date, so overlapping runs converge
// on the same row.
type StatsRollupWorker struct {
	log      *logger.Logger
	stats    services.StatsService
	interval time.Duration
}

func NewStatsRollupWorker(baseLog *logger.Logger, stats services.StatsService, interval time.Duration) *StatsRollupWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &StatsRollupWorker{
		log:      baseLog.With("component", "StatsRollupWorker"),
		stats:    stats,
		interval: interval,
	}
}

func (w *StatsRollupWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				func() {
					defer func() {
						if r := recover(); r != nil {
							w.log.Error("Stats rollup panic", "panic", r)
						}
					}()
					runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
					defer cancel()
					if _, err := w.stats.RollupToday(runCtx); err != nil {
						w.log.Warn("Stats rollup failed", "error", err)
					}
				}()
			}
		}
	}()
}
