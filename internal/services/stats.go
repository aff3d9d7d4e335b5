package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type StatsSummary struct {
	Users          int64 `json:"users"`
	Videos         int64 `json:"videos"`
	Views          int64 `json:"views"`
	Likes          int64 `json:"likes"`
	PendingReviews int64 `json:"pendingReviews"`
}

type StatsService interface {
	// Summary counts the live tables.
	Summary(ctx context.Context) (*StatsSummary, error)
	// RollupToday snapshots the summary into today's StatisticsDaily row,
	// mutating it in place when it already exists.
	RollupToday(ctx context.Context) (*types.StatisticsDaily, error)
	// UpsertDaily applies admin-supplied counters to the row for date.
	UpsertDaily(ctx context.Context, stats *types.StatisticsDaily) (*types.StatisticsDaily, error)
	ListDaily(ctx context.Context, from, to string) ([]*types.StatisticsDaily, error)
}

type statsService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	videoRepo repos.VideoRepo
	statsRepo repos.StatisticsDailyRepo
}

func NewStatsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	videoRepo repos.VideoRepo,
	statsRepo repos.StatisticsDailyRepo,
) StatsService {
	return &statsService{
		db:        db,
		log:       baseLog.With("service", "StatsService"),
		userRepo:  userRepo,
		videoRepo: videoRepo,
		statsRepo: statsRepo,
	}
}

func (ss *statsService) Summary(ctx context.Context) (*StatsSummary, error) {
	var summary StatsSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := ss.userRepo.Count(gctx, nil)
		summary.Users = n
		return err
	})
	g.Go(func() error {
		n, err := ss.videoRepo.Count(gctx, nil)
		summary.Videos = n
		return err
	})
	g.Go(func() error {
		views, likes, err := ss.videoRepo.SumViewsAndLikes(gctx, nil)
		summary.Views = views
		summary.Likes = likes
		return err
	})
	g.Go(func() error {
		n, err := ss.videoRepo.CountByStatus(gctx, nil, types.VideoStatusPendingReview)
		summary.PendingReviews = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect summary: %w", err)
	}
	return &summary, nil
}

func (ss *statsService) RollupToday(ctx context.Context) (*types.StatisticsDaily, error) {
	summary, err := ss.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return ss.UpsertDaily(ctx, &types.StatisticsDaily{
		Date:           time.Now().Format("2006-01-02"),
		Users:          summary.Users,
		Videos:         summary.Videos,
		Views:          summary.Views,
		Likes:          summary.Likes,
		PendingReviews: summary.PendingReviews,
	})
}

func (ss *statsService) UpsertDaily(ctx context.Context, stats *types.StatisticsDaily) (*types.StatisticsDaily, error) {
	if stats.Date == "" {
		return nil, apierr.Validation("missing_date", fmt.Errorf("date is required"))
	}
	if _, err := time.Parse("2006-01-02", stats.Date); err != nil {
		return nil, apierr.Validation("invalid_date", fmt.Errorf("date must be YYYY-MM-DD"))
	}
	return ss.statsRepo.Upsert(ctx, nil, stats)
}

func (ss *statsService) ListDaily(ctx context.Context, from, to string) ([]*types.StatisticsDaily, error) {
	return ss.statsRepo.ListRange(ctx, nil, from, to)
}
