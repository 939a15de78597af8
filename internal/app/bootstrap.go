package app

import (
	"context"

	"crudboard/internal/app/board"
	"crudboard/internal/app/health"
	"crudboard/internal/app/web"
	"crudboard/internal/config"
	"crudboard/internal/db"
	"crudboard/internal/db/seeder"
	"crudboard/internal/gateways/websocket"
	"crudboard/internal/metrics"
	"crudboard/internal/providers/redis"
	"crudboard/internal/router"
	"crudboard/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
	Redis  *redis.RedisProvider
	cancel context.CancelFunc
}

// Bootstrap wires every component. Background workers stop when Close is called.
func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	return bootstrap(cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func bootstrap(
	cfg *config.Config,
	logger *zap.Logger,
	registerer prometheus.Registerer,
	gatherer prometheus.Gatherer,
) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		closeDB(dbConn, logger)
		return nil, err
	}

	if cfg.SeedSampleData {
		seed := seeder.NewSeeder(dbConn, logger)
		if err := seed.Seed(); err != nil {
			logger.Warn("Failed to run seeders", zap.Error(err))
		}
	}

	tmpl, err := web.LoadTemplates()
	if err != nil {
		closeDB(dbConn, logger)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := metrics.NewWithRegistry(registerer, logger)
	eventBus := utils.NewEventBus()
	hub := websocket.NewHub(logger, eventBus)
	go eventBus.Run(ctx)
	go hub.Run(ctx)

	var (
		redisProvider *redis.RedisProvider
		boardCache    board.Cache
	)
	checker := &utils.HealthChecker{DB: dbConn}
	if cfg.RedisURL != "" {
		redisProvider = redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
		boardCache = board.NewRedisCache(redisProvider, cfg.RedisTTL, logger)
		checker.Redis = redisProvider.Client
	} else {
		logger.Info("REDIS_URL not set, board cache disabled")
	}

	boardRepo := board.NewRepository(dbConn)
	boardService := board.NewService(boardRepo, boardCache, eventBus, m, logger)

	healthHandler := health.NewHandler(health.NewService(checker))
	boardHandler := board.NewHandler(boardService, logger)
	webHandler := web.NewHandler(boardService, logger)

	r := router.NewRouter(logger, m, cfg.FrontendURL)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterMetricsRoutes(gatherer)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterWebRoutes(tmpl, webHandler)

	return &Application{
		Router: r,
		DB:     dbConn,
		Redis:  redisProvider,
		cancel: cancel,
	}, nil
}

func (a *Application) Close() error {
	a.cancel()

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			return err
		}
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB, logger *zap.Logger) {
	sqlDB, err := dbConn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
}
