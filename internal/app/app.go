package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/db"
	shelfhttp "github.com/shelfcast/shelfcast-backend/internal/http"
	httpMW "github.com/shelfcast/shelfcast-backend/internal/http/middleware"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/envutil"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	cancel   context.CancelFunc
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset)
	handlerset := wireHandlers(log, serviceset)
	authMW := wireMiddleware(log, serviceset)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()
	if err := serviceset.Category.SeedDefaults(seedCtx); err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	var counter httpMW.WindowCounter
	if clientset.Redis != nil {
		counter = httpMW.NewRedisWindowCounter(clientset.Redis)
	} else {
		counter = httpMW.NewMemoryWindowCounter()
	}

	router := shelfhttp.NewRouter(shelfhttp.RouterConfig{
		Log:  log,
		CORS: httpMW.CORSConfig{AllowedOrigins: cfg.AllowedOrigins},
		RateLimit: httpMW.RateLimitConfig{
			Limit:  int64(cfg.RateLimitMax),
			Window: cfg.RateLimitWindow,
		},
		RateCounter:     counter,
		AuthMiddleware:  authMW,
		HealthHandler:   handlerset.Health,
		AuthHandler:     handlerset.Auth,
		BookHandler:     handlerset.Book,
		ContentHandler:  handlerset.Content,
		VideoHandler:    handlerset.Video,
		FeedHandler:     handlerset.Feed,
		CategoryHandler: handlerset.Category,
		UserHandler:     handlerset.User,
		StatsHandler:    handlerset.Stats,
		UploadHandler:   handlerset.Upload,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Clients:  clientset,
		Services: serviceset,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.StatsRollup != nil {
		a.Services.StatsRollup.Start(ctx)
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.Redis != nil {
		a.Clients.Redis.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
