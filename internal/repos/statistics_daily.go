package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type StatisticsDailyRepo interface {
	// Upsert looks up the row for stats.Date and mutates it in place,
	// creating it when absent. One row per calendar date, never duplicated.
	Upsert(ctx context.Context, tx *gorm.DB, stats *types.StatisticsDaily) (*types.StatisticsDaily, error)
	GetByDate(ctx context.Context, tx *gorm.DB, date string) (*types.StatisticsDaily, error)
	ListRange(ctx context.Context, tx *gorm.DB, from, to string) ([]*types.StatisticsDaily, error)
}

type statisticsDailyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatisticsDailyRepo(db *gorm.DB, baseLog *logger.Logger) StatisticsDailyRepo {
	return &statisticsDailyRepo{db: db, log: baseLog.With("repo", "StatisticsDailyRepo")}
}

func (r *statisticsDailyRepo) Upsert(ctx context.Context, tx *gorm.DB, stats *types.StatisticsDaily) (*types.StatisticsDaily, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if stats.ID == uuid.Nil {
		stats.ID = uuid.New()
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"users", "videos", "views", "likes", "comments", "pending_reviews", "updated_at",
			}),
		}).
		Create(stats).Error
	if err != nil {
		return nil, err
	}
	return r.GetByDate(ctx, transaction, stats.Date)
}

func (r *statisticsDailyRepo) GetByDate(ctx context.Context, tx *gorm.DB, date string) (*types.StatisticsDaily, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stats types.StatisticsDaily
	err := transaction.WithContext(ctx).
		Where("date = ?", date).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statisticsDailyRepo) ListRange(ctx context.Context, tx *gorm.DB, from, to string) ([]*types.StatisticsDaily, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.StatisticsDaily{})
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var rows []*types.StatisticsDaily
	if err := q.Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
