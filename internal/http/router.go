package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/shelfcast/shelfcast-backend/internal/http/handlers"
	httpMW "github.com/shelfcast/shelfcast-backend/internal/http/middleware"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	CORS        httpMW.CORSConfig
	RateLimit   httpMW.RateLimitConfig
	RateCounter httpMW.WindowCounter

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	BookHandler     *httpH.BookHandler
	ContentHandler  *httpH.ContentHandler
	VideoHandler    *httpH.VideoHandler
	FeedHandler     *httpH.FeedHandler
	CategoryHandler *httpH.CategoryHandler
	UserHandler     *httpH.UserHandler
	StatsHandler    *httpH.StatsHandler
	UploadHandler   *httpH.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("shelfcast-backend"))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLog(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORS))

	if cfg.HealthHandler != nil {
		r.GET("/api/health", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.RateCounter != nil && cfg.Log != nil {
		api.Use(httpMW.RateLimit(cfg.Log, cfg.RateCounter, cfg.RateLimit))
	}

	// Standard routes run under the default deadline. Long-running pipeline
	// stages get their own group so the parent context does not cut them off.
	std := api.Group("/", httpMW.WithTimeout(httpMW.DefaultTimeout))
	long := api.Group("/", httpMW.WithTimeout(httpMW.LongTimeout))

	// Public
	{
		if cfg.AuthHandler != nil {
			std.POST("/auth/login", cfg.AuthHandler.Login)
		}
		if cfg.CategoryHandler != nil {
			std.GET("/categories", cfg.CategoryHandler.List)
		}
		if cfg.FeedHandler != nil {
			std.GET("/feed/videos", cfg.FeedHandler.ListVideos)
			std.GET("/feed/videos/:id", cfg.FeedHandler.GetVideo)
			std.POST("/feed/videos/:id/view", cfg.FeedHandler.RecordView)
			std.POST("/feed/videos/:id/like", cfg.FeedHandler.RecordLike)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	admin := std.Group("/", cfg.AuthMiddleware.RequireAdmin())
	adminLong := long.Group("/", cfg.AuthMiddleware.RequireAdmin())
	{
		if cfg.BookHandler != nil {
			admin.POST("/books", cfg.BookHandler.Create)
			admin.GET("/books", cfg.BookHandler.List)
			admin.GET("/books/:id", cfg.BookHandler.Get)
			admin.PUT("/books/:id", cfg.BookHandler.Update)
			admin.DELETE("/books/:id", cfg.BookHandler.Delete)
			admin.GET("/books/:id/contents", cfg.BookHandler.ListContents)
		}

		if cfg.ContentHandler != nil {
			adminLong.POST("/books/:id/extract", cfg.ContentHandler.Extract)
			admin.PUT("/books/content/:id", cfg.ContentHandler.Update)
			admin.POST("/books/content/:id/generate-avatar", cfg.ContentHandler.GenerateAvatar)
			admin.POST("/books/content/:id/generate-audio", cfg.ContentHandler.GenerateAudio)
			admin.POST("/books/content/:id/translate", cfg.ContentHandler.Translate)
			adminLong.POST("/books/content/:id/generate-silent-video", cfg.ContentHandler.GenerateSilentVideo)
			adminLong.POST("/books/content/:id/generate-video", cfg.ContentHandler.GenerateVideo)
			adminLong.POST("/books/content/:id/generate-english-video", cfg.ContentHandler.GenerateEnglishVideo)
		}

		if cfg.VideoHandler != nil {
			admin.POST("/videos/publish", cfg.VideoHandler.Publish)
			admin.POST("/videos", cfg.VideoHandler.Publish)
			admin.GET("/videos", cfg.VideoHandler.List)
			admin.GET("/videos/:id", cfg.VideoHandler.Get)
			admin.PUT("/videos/:id", cfg.VideoHandler.Update)
			admin.PUT("/videos/:id/review", cfg.VideoHandler.Review)
			admin.POST("/videos/:id/review", cfg.VideoHandler.Review)
			admin.PUT("/videos/:id/toggle-status", cfg.VideoHandler.ToggleStatus)
			admin.POST("/videos/:id/toggle-status", cfg.VideoHandler.ToggleStatus)
			admin.DELETE("/videos/:id", cfg.VideoHandler.Delete)
		}

		if cfg.UserHandler != nil {
			admin.POST("/users", cfg.UserHandler.Create)
			admin.GET("/users", cfg.UserHandler.List)
			admin.GET("/users/:id", cfg.UserHandler.Get)
			admin.PUT("/users/:id", cfg.UserHandler.Update)
			admin.DELETE("/users/:id", cfg.UserHandler.Delete)
		}

		if cfg.StatsHandler != nil {
			admin.GET("/stats/summary", cfg.StatsHandler.Summary)
			admin.GET("/stats/daily", cfg.StatsHandler.ListDaily)
			admin.POST("/stats/daily", cfg.StatsHandler.UpsertDaily)
		}

		if cfg.UploadHandler != nil {
			adminLong.POST("/uploads", cfg.UploadHandler.Upload)
			admin.GET("/uploads/:id/progress", cfg.UploadHandler.Progress)
		}
	}

	return r
}
