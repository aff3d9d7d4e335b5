package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type ExtractedContentRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, items []*types.ExtractedContent) ([]*types.ExtractedContent, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ExtractedContent, error)
	ListByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) ([]*types.ExtractedContent, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// SetArtifacts writes stage artifact columns plus video_status directly,
	// bypassing the caller-facing allow-list. Only the pipeline uses it.
	SetArtifacts(ctx context.Context, tx *gorm.DB, id uuid.UUID, artifacts map[string]interface{}) error
	DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error
}

type extractedContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExtractedContentRepo(db *gorm.DB, baseLog *logger.Logger) ExtractedContentRepo {
	return &extractedContentRepo{db: db, log: baseLog.With("repo", "ExtractedContentRepo")}
}

func (r *extractedContentRepo) CreateBatch(ctx context.Context, tx *gorm.DB, items []*types.ExtractedContent) ([]*types.ExtractedContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return []*types.ExtractedContent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *extractedContentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ExtractedContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.ExtractedContent
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *extractedContentRepo) ListByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) ([]*types.ExtractedContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var items []*types.ExtractedContent
	if err := transaction.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("chapter_index ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *extractedContentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	filtered, err := filterUpdates(contentUpdatableFields, updates)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ExtractedContent{}).
		Where("id = ?", id).
		Updates(filtered).Error
}

func (r *extractedContentRepo) SetArtifacts(ctx context.Context, tx *gorm.DB, id uuid.UUID, artifacts map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(artifacts) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ExtractedContent{}).
		Where("id = ?", id).
		Updates(artifacts).Error
}

func (r *extractedContentRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&types.ExtractedContent{}).Error
}
