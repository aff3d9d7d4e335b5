package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type VideoFilter struct {
	Status     types.VideoStatus
	CategoryID *uuid.UUID
	// VisibleOnly restricts to published AND not disabled (the feed predicate).
	VisibleOnly bool
	Search      string
	Offset      int
	Limit       int
}

type VideoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, video *types.Video) (*types.Video, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Video, error)
	List(ctx context.Context, tx *gorm.DB, filter VideoFilter) ([]*types.Video, int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.VideoStatus, reviewNotes string) error
	SetDisabled(ctx context.Context, tx *gorm.DB, id uuid.UUID, disabled bool) error
	IncrementViews(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	IncrementLikes(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountByStatus(ctx context.Context, tx *gorm.DB, status types.VideoStatus) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	SumViewsAndLikes(ctx context.Context, tx *gorm.DB) (views int64, likes int64, err error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{db: db, log: baseLog.With("repo", "VideoRepo")}
}

func (r *videoRepo) Create(ctx context.Context, tx *gorm.DB, video *types.Video) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

func (r *videoRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var video types.Video
	err := transaction.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) List(ctx context.Context, tx *gorm.DB, filter VideoFilter) ([]*types.Video, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Video{})
	if filter.VisibleOnly {
		q = q.Where("status = ? AND disabled = ?", types.VideoStatusPublished, false)
	} else if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR english_title LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	var videos []*types.Video
	if err := q.Preload("Category").Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *videoRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	filtered, err := filterUpdates(videoUpdatableFields, updates)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Updates(filtered).Error
}

func (r *videoRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.VideoStatus, reviewNotes string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{"status": status}
	if reviewNotes != "" {
		updates["review_notes"] = reviewNotes
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *videoRepo) SetDisabled(ctx context.Context, tx *gorm.DB, id uuid.UUID, disabled bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Update("disabled", disabled).Error
}

func (r *videoRepo) IncrementViews(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *videoRepo) IncrementLikes(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + 1")).Error
}

func (r *videoRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status types.VideoStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *videoRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).Model(&types.Video{}).Count(&count).Error
	return count, err
}

func (r *videoRepo) SumViewsAndLikes(ctx context.Context, tx *gorm.DB) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	type sums struct {
		Views int64
		Likes int64
	}
	var s sums
	err := transaction.WithContext(ctx).
		Model(&types.Video{}).
		Select("COALESCE(SUM(view_count),0) AS views, COALESCE(SUM(like_count),0) AS likes").
		Scan(&s).Error
	return s.Views, s.Likes, err
}

func (r *videoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Video{}).Error
}
