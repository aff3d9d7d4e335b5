package app

import (
	httpH "github.com/shelfcast/shelfcast-backend/internal/http/handlers"
	httpMW "github.com/shelfcast/shelfcast-backend/internal/http/middleware"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Book     *httpH.BookHandler
	Content  *httpH.ContentHandler
	Video    *httpH.VideoHandler
	Feed     *httpH.FeedHandler
	Category *httpH.CategoryHandler
	User     *httpH.UserHandler
	Stats    *httpH.StatsHandler
	Upload   *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	handlerset := Handlers{
		Health:   httpH.NewHealthHandler(),
		Auth:     httpH.NewAuthHandler(log, serviceset.Auth),
		Book:     httpH.NewBookHandler(log, serviceset.Book),
		Content:  httpH.NewContentHandler(log, serviceset.Pipeline, serviceset.Book),
		Video:    httpH.NewVideoHandler(log, serviceset.Video),
		Feed:     httpH.NewFeedHandler(log, serviceset.Feed),
		Category: httpH.NewCategoryHandler(log, serviceset.Category),
		User:     httpH.NewUserHandler(log, serviceset.User),
		Stats:    httpH.NewStatsHandler(log, serviceset.Stats),
	}
	if serviceset.Upload != nil {
		handlerset.Upload = httpH.NewUploadHandler(log, serviceset.Upload)
	}
	return handlerset
}

func wireMiddleware(log *logger.Logger, serviceset Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, serviceset.Auth)
}
