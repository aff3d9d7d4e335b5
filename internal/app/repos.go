package app

import (
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
)

type Repos struct {
	Book             repos.BookRepo
	ExtractedContent repos.ExtractedContentRepo
	Video            repos.VideoRepo
	Category         repos.CategoryRepo
	User             repos.UserRepo
	StatisticsDaily  repos.StatisticsDailyRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Book:             repos.NewBookRepo(db, log),
		ExtractedContent: repos.NewExtractedContentRepo(db, log),
		Video:            repos.NewVideoRepo(db, log),
		Category:         repos.NewCategoryRepo(db, log),
		User:             repos.NewUserRepo(db, log),
		StatisticsDaily:  repos.NewStatisticsDailyRepo(db, log),
	}
}
