package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type CreateBookInput struct {
	Title      string
	Author     string
	ISBN       string
	CategoryID *uuid.UUID
	CoverURL   string
	FileURL    string
}

type BookService interface {
	Create(ctx context.Context, input CreateBookInput) (*types.Book, error)
	Get(ctx context.Context, bookID uuid.UUID) (*types.Book, error)
	List(ctx context.Context, filter repos.BookFilter) ([]*types.Book, int64, error)
	Update(ctx context.Context, bookID uuid.UUID, updates map[string]interface{}) (*types.Book, error)
	Delete(ctx context.Context, bookID uuid.UUID) error
	ListContents(ctx context.Context, bookID uuid.UUID) ([]*types.ExtractedContent, error)
	UpdateContent(ctx context.Context, contentID uuid.UUID, updates map[string]interface{}) (*types.ExtractedContent, error)
}

type bookService struct {
	db           *gorm.DB
	log          *logger.Logger
	bookRepo     repos.BookRepo
	contentRepo  repos.ExtractedContentRepo
	categoryRepo repos.CategoryRepo
}

func NewBookService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bookRepo repos.BookRepo,
	contentRepo repos.ExtractedContentRepo,
	categoryRepo repos.CategoryRepo,
) BookService {
	return &bookService{
		db:           db,
		log:          baseLog.With("service", "BookService"),
		bookRepo:     bookRepo,
		contentRepo:  contentRepo,
		categoryRepo: categoryRepo,
	}
}

func (bs *bookService) Create(ctx context.Context, input CreateBookInput) (*types.Book, error) {
	if input.Title == "" {
		return nil, apierr.Validation("missing_title", fmt.Errorf("title is required"))
	}
	if input.CategoryID != nil {
		category, err := bs.categoryRepo.GetByID(ctx, nil, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("load category: %w", err)
		}
		if category == nil {
			return nil, apierr.NotFound("category_not_found", fmt.Errorf("category %s not found", *input.CategoryID))
		}
	}
	book := &types.Book{
		ID:         uuid.New(),
		Title:      input.Title,
		Author:     input.Author,
		ISBN:       input.ISBN,
		CategoryID: input.CategoryID,
		CoverURL:   input.CoverURL,
		FileURL:    input.FileURL,
		UploadDate: time.Now(),
		Status:     types.BookStatusPending,
	}
	if _, err := bs.bookRepo.Create(ctx, nil, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	bs.log.Info("Book created", "book_id", book.ID)
	return book, nil
}

func (bs *bookService) Get(ctx context.Context, bookID uuid.UUID) (*types.Book, error) {
	book, err := bs.bookRepo.GetByID(ctx, nil, bookID)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book == nil {
		return nil, apierr.NotFound("book_not_found", fmt.Errorf("book %s not found", bookID))
	}
	return book, nil
}

func (bs *bookService) List(ctx context.Context, filter repos.BookFilter) ([]*types.Book, int64, error) {
	return bs.bookRepo.List(ctx, nil, filter)
}

func (bs *bookService) Update(ctx context.Context, bookID uuid.UUID, updates map[string]interface{}) (*types.Book, error) {
	if _, err := bs.Get(ctx, bookID); err != nil {
		return nil, err
	}
	if err := bs.bookRepo.UpdateFields(ctx, nil, bookID, updates); err != nil {
		return nil, apierr.Validation("invalid_update", err)
	}
	return bs.Get(ctx, bookID)
}

func (bs *bookService) Delete(ctx context.Context, bookID uuid.UUID) error {
	if _, err := bs.Get(ctx, bookID); err != nil {
		return err
	}
	// The book owns its extracted contents; remove them with it.
	return bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bs.contentRepo.DeleteByBookID(ctx, tx, bookID); err != nil {
			return err
		}
		return bs.bookRepo.Delete(ctx, tx, bookID)
	})
}

func (bs *bookService) ListContents(ctx context.Context, bookID uuid.UUID) ([]*types.ExtractedContent, error) {
	if _, err := bs.Get(ctx, bookID); err != nil {
		return nil, err
	}
	return bs.contentRepo.ListByBookID(ctx, nil, bookID)
}

func (bs *bookService) UpdateContent(ctx context.Context, contentID uuid.UUID, updates map[string]interface{}) (*types.ExtractedContent, error) {
	item, err := bs.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	if item == nil {
		return nil, apierr.NotFound("content_not_found", fmt.Errorf("content %s not found", contentID))
	}
	if err := bs.contentRepo.UpdateFields(ctx, nil, contentID, updates); err != nil {
		return nil, apierr.Validation("invalid_update", err)
	}
	return bs.contentRepo.GetByID(ctx, nil, contentID)
}
