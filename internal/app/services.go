package app

import (
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/jobs"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Book     services.BookService
	Pipeline services.PipelineService
	Video    services.VideoService
	Feed     services.FeedService
	Category services.CategoryService
	User     services.UserService
	Stats    services.StatsService

	// Upload is nil when no bucket is configured.
	Upload services.UploadService

	StatsRollup *jobs.StatsRollupWorker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	bookService := services.NewBookService(db, log, reposet.Book, reposet.ExtractedContent, reposet.Category)
	pipelineService := services.NewPipelineService(db, log, clients.Studio, reposet.Book, reposet.ExtractedContent)
	videoService := services.NewVideoService(db, log, reposet.Video, reposet.ExtractedContent, reposet.Category, reposet.User, clients.Mailer)
	feedService := services.NewFeedService(db, log, reposet.Video, reposet.User)
	categoryService := services.NewCategoryService(db, log, reposet.Category)
	userService := services.NewUserService(db, log, reposet.User)
	statsService := services.NewStatsService(db, log, reposet.User, reposet.Video, reposet.StatisticsDaily)

	var uploadService services.UploadService
	if clients.Bucket != nil {
		uploadService = services.NewUploadService(log, clients.Bucket)
	}

	return Services{
		Auth:        authService,
		Book:        bookService,
		Pipeline:    pipelineService,
		Video:       videoService,
		Feed:        feedService,
		Category:    categoryService,
		User:        userService,
		Stats:       statsService,
		Upload:      uploadService,
		StatsRollup: jobs.NewStatsRollupWorker(log, statsService, cfg.StatsRollupInterval),
	}
}
