package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/workload-service/internal/api/http"
	"github.com/spec-kit/workload-service/internal/api/http/handlers"
	"github.com/spec-kit/workload-service/internal/auth"
	"github.com/spec-kit/workload-service/internal/config"
	"github.com/spec-kit/workload-service/internal/events"
	"github.com/spec-kit/workload-service/internal/observability"
	"github.com/spec-kit/workload-service/internal/persistence"
	"github.com/spec-kit/workload-service/internal/service"
	"github.com/spec-kit/workload-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, health, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init storage backend", zap.Error(err))
	}
	defer cleanup()

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	deps := service.ModuleDependencies{
		Store:           store,
		Dispatcher:      dispatcher,
		Logger:          logger,
		NotificationTTL: cfg.Notification.TTL(),
		UploadMaxBytes:  cfg.Upload.MaxBytes,
	}

	staffModule := service.NewStaffModule(deps)
	courseModule := service.NewCourseModule(deps)
	taskModule := service.NewTaskModule(deps)
	defer staffModule.Close()
	defer courseModule.Close()
	defer taskModule.Close()

	for _, hydrate := range []func(context.Context) error{
		staffModule.Hydrate, courseModule.Hydrate, taskModule.Hydrate,
	} {
		if err := hydrate(ctx); err != nil {
			logger.Fatal("failed to hydrate collection", zap.Error(err))
		}
	}

	sessionService, err := service.NewSessionService(*cfg)
	if err != nil {
		logger.Fatal("failed to init session service", zap.Error(err))
	}
	reportService := service.NewReportService(staffModule, courseModule, taskModule)

	authMiddleware := auth.NewAuthMiddleware(sessionService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, health),
		Session:        handlers.NewSessionHandler(sessionService),
		Staff:          handlers.NewEntityHandler(staffModule, "department"),
		Courses:        handlers.NewEntityHandler(courseModule, "department", "semester"),
		Tasks:          handlers.NewEntityHandler(taskModule, "category", "department"),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildStore selects the collection store backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.CollectionStore, map[string]handlers.Pinger, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		redis := persistence.NewRedis(cfg.Redis, logger)
		store := persistence.NewRedisStore(redis, cfg.Storage.KeyPrefix)
		return store, map[string]handlers.Pinger{"redis": redis}, redis.Close, nil
	case "postgres":
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, func() {}, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, func() {}, err
			}
		}
		store := persistence.NewPostgresStore(pg, cfg.Storage.KeyPrefix)
		return store, map[string]handlers.Pinger{"postgres": pg}, pg.Close, nil
	default:
		logger.Info("using in-memory storage backend")
		return persistence.NewMemoryStore(), map[string]handlers.Pinger{}, func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
