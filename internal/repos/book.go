package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

// ErrInvalidStatusTransition marks a rejected backward status move so callers
// can distinguish it from storage failures.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

type BookFilter struct {
	Status     types.BookStatus
	CategoryID *uuid.UUID
	Search     string
	Offset     int
	Limit      int
}

type BookRepo interface {
	Create(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Book, error)
	List(ctx context.Context, tx *gorm.DB, filter BookFilter) ([]*types.Book, int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// AdvanceStatus moves the book status forward; backward moves are rejected.
	AdvanceStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, next types.BookStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return &bookRepo{db: db, log: baseLog.With("repo", "BookRepo")}
}

func (r *bookRepo) Create(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (r *bookRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var book types.Book
	err := transaction.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) List(ctx context.Context, tx *gorm.DB, filter BookFilter) ([]*types.Book, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Book{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	var books []*types.Book
	if err := q.Preload("Category").Order("upload_date DESC").Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *bookRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	filtered, err := filterUpdates(bookUpdatableFields, updates)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Book{}).
		Where("id = ?", id).
		Updates(filtered).Error
}

func (r *bookRepo) AdvanceStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, next types.BookStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	book, err := r.GetByID(ctx, transaction, id)
	if err != nil {
		return err
	}
	if book == nil {
		return gorm.ErrRecordNotFound
	}
	if book.Status == next {
		return nil
	}
	if !book.Status.CanAdvanceTo(next) {
		return fmt.Errorf("book status cannot move from %q to %q: %w", book.Status, next, ErrInvalidStatusTransition)
	}
	return transaction.WithContext(ctx).
		Model(&types.Book{}).
		Where("id = ?", id).
		Update("status", next).Error
}

func (r *bookRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Book{}).Error
}
