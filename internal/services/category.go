package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

// defaultCategories is the canonical category set both consoles rely on.
// Seeding is idempotent; existing rows are never touched.
var defaultCategories = []struct {
	Name        string
	DisplayName string
}{
	{"literature", "文学"},
	{"history", "历史"},
	{"science", "科学"},
	{"technology", "科技"},
	{"business", "商业"},
	{"psychology", "心理"},
	{"philosophy", "哲学"},
	{"biography", "传记"},
}

type CategoryService interface {
	SeedDefaults(ctx context.Context) error
	List(ctx context.Context) ([]*types.Category, error)
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, baseLog *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:           db,
		log:          baseLog.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
	}
}

func (cs *categoryService) SeedDefaults(ctx context.Context) error {
	rows := make([]*types.Category, 0, len(defaultCategories))
	for i, c := range defaultCategories {
		rows = append(rows, &types.Category{
			ID:          uuid.New(),
			Name:        c.Name,
			DisplayName: c.DisplayName,
			SortOrder:   i,
		})
	}
	if err := cs.categoryRepo.SeedDefaults(ctx, nil, rows); err != nil {
		return err
	}
	cs.log.Info("Category seed ensured", "count", len(rows))
	return nil
}

func (cs *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	return cs.categoryRepo.List(ctx, nil)
}
