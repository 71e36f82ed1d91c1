package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/leave-service/internal/api/http"
	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/persistence"
	"github.com/spec-kit/leave-service/internal/repository"
	"github.com/spec-kit/leave-service/internal/service"
	"github.com/spec-kit/leave-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.Pool
	employeeRepo := repository.NewEmployeeRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	historyRepo := repository.NewRequestHistoryRepository(pool)
	nameCache := repository.NewRedisNameCache(redis.Client, cfg.Cache.ManagerNameTTL())

	directoryService := service.NewDirectoryService(service.DirectoryDependencies{EmployeeRepo: employeeRepo})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{EmployeeRepo: employeeRepo})
	hierarchyService := service.NewHierarchyService(service.HierarchyDependencies{
		EmployeeRepo: employeeRepo,
		TeamRepo:     teamRepo,
		NameCache:    nameCache,
		Metrics:      metrics,
		Logger:       logger,
	})
	teamService := service.NewTeamService(service.TeamDependencies{TeamRepo: teamRepo})
	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo:  requestRepo,
		HistoryRepo:  historyRepo,
		EmployeeRepo: employeeRepo,
		ScheduleRepo: scheduleRepo,
		Transactor:   repository.NewTransactor(pool),
		Metrics:      metrics,
		Logger:       logger,
	})

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(cfg.Notification, service.NotificationDependencies{
		Dispatcher:   dispatcher,
		EmployeeRepo: employeeRepo,
		Mailer:       service.LogMailer{Logger: logger},
		Metrics:      metrics,
		Logger:       logger,
	})
	notificationService.RegisterHandlers()

	notifications := worker.NewNotificationWorker(cfg.Notification, dispatcher, logger, metrics)
	notifications.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), employeeRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Employees:      handlers.NewEmployeesHandler(directoryService),
		Auth:           handlers.NewAuthHandler(authService),
		Teams:          handlers.NewTeamsHandler(hierarchyService, teamService, requestService),
		Requests:       handlers.NewRequestsHandler(requestService, notifications, logger),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	if err := notifications.Stop(drainCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
