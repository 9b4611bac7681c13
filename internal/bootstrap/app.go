package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"burgerreview/internal/app"
	"burgerreview/internal/cache"
	"burgerreview/internal/config"
	"burgerreview/internal/event"
	"burgerreview/internal/logger"
	"burgerreview/internal/platform/database"
	rabbitmqClient "burgerreview/internal/platform/rabbitmq"
	redisClient "burgerreview/internal/platform/redis"
	"burgerreview/internal/repository"
	"burgerreview/internal/session"
)

// App is the application context: built once at startup, shared by every
// handler and torn down by Close.
type App struct {
	Config *config.Config
	Logger *zap.SugaredLogger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Store          *repository.Store
	Sessions       *session.Store
	AuthService    *app.AuthService
	CatalogService *app.CatalogService
	ReviewService  *app.ReviewService
	RatingService  *app.RatingService
	RatingWorker   *event.RatingWorker

	StartedAt time.Time
}

// Dependencies are the live connections App is built from.
type Dependencies struct {
	Config *config.Config
	Logger *zap.SugaredLogger
	DB     *gorm.DB
	Redis  *redis.Client
	// MQConn is nil when RabbitMQ is disabled.
	MQConn *amqp.Connection
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	deps := Dependencies{Config: cfg, Logger: log}
	cleanup := func() {
		partial := &App{DB: deps.DB, Redis: deps.Redis, MQConn: deps.MQConn}
		_ = partial.Close()
	}

	dbOpts := database.OptionsFromConfig(cfg)
	dbOpts.Logger = log.Named("gorm")
	deps.DB, err = database.Open(ctx, dbOpts)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(deps.DB); err != nil {
		cleanup()
		return nil, err
	}

	deps.Redis, err = redisClient.New(ctx, cfg.Redis)
	if err != nil {
		cleanup()
		return nil, err
	}

	if cfg.RabbitMQ.Enabled {
		deps.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			cleanup()
			return nil, err
		}
	}

	a, err := Build(ctx, deps)
	if err != nil {
		cleanup()
		return nil, err
	}

	log.Infow("application ready",
		"env", cfg.App.Env,
		"database", cfg.Database.Driver,
		"rabbitmq", cfg.RabbitMQ.Enabled,
	)
	return a, nil
}

// Build wires repositories, caches and services over already opened
// connections. Review events go through RabbitMQ when deps.MQConn is set and
// are applied in-process otherwise.
func Build(ctx context.Context, deps Dependencies) (*App, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	store := repository.NewStore(deps.DB)
	sessions := session.NewStore(deps.Redis, time.Duration(cfg.Auth.SessionTTLMinute)*time.Minute)
	listings := cache.NewListingCache(deps.Redis, time.Duration(cfg.Redis.ListingTTLSeconds)*time.Second)

	ratingService := app.NewRatingService(store, listings, log.Named("rating"))

	a := &App{
		Config:         cfg,
		Logger:         log,
		DB:             deps.DB,
		Redis:          deps.Redis,
		MQConn:         deps.MQConn,
		Store:          store,
		Sessions:       sessions,
		RatingService:  ratingService,
		CatalogService: app.NewCatalogService(store, listings, log.Named("catalog")),
		AuthService: app.NewAuthService(
			store,
			sessions,
			cfg.Auth.JWTSecret,
			time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
			log.Named("auth"),
		),
		StartedAt: time.Now(),
	}

	var publisher app.ReviewEventPublisher
	if deps.MQConn != nil {
		a.RatingWorker = event.NewRatingWorker(deps.MQConn, ratingService, cfg.RabbitMQ.ReviewEventQueue, log.Named("worker"))
		if err := a.RatingWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start rating worker failed: %w", err)
		}
		publisher = event.NewAMQPPublisher(deps.MQConn, cfg.RabbitMQ.ReviewEventQueue)
	} else {
		publisher = event.NewInlinePublisher(ratingService)
	}
	a.ReviewService = app.NewReviewService(store, listings, publisher, log.Named("review"))

	return a, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.RatingWorker != nil {
		a.RatingWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
