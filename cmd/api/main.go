package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/order-service/internal/api/http"
	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/observability"
	"github.com/spec-kit/order-service/internal/persistence"
	"github.com/spec-kit/order-service/internal/receipt"
	"github.com/spec-kit/order-service/internal/repository"
	"github.com/spec-kit/order-service/internal/repository/memory"
	"github.com/spec-kit/order-service/internal/service"
	"github.com/spec-kit/order-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var uow repository.UnitOfWork
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		uow = repository.NewPostgresUnitOfWork(pg.PoolHandle())
	} else {
		uow = memory.New()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	if redis != nil {
		revocations = auth.NewRedisRevocationStore(redis.Client)
	}

	notifications := worker.NewNotificationWorker(events.NewInMemoryDispatcher(logger), 0, logger)
	worker.StartNotificationWorker(service.NewNotificationService(notifications, logger, cfg.Notification))

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UnitOfWork:  uow,
		Revocations: revocations,
		Logger:      logger,
	})
	customerService := service.NewCustomerService(*cfg, service.CustomerDependencies{
		UnitOfWork: uow,
		Dispatcher: notifications,
		Logger:     logger,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		UnitOfWork: uow,
		Dispatcher: notifications,
		Renderer:   receipt.NewPDFRenderer(cfg.Receipt, logger),
		Logger:     logger,
	})
	catalogService := service.NewCatalogService(uow)

	created, err := authService.BootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
	if err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}
	if created {
		logger.Info("bootstrap admin created", zap.String("username", cfg.Bootstrap.AdminUsername))
	}

	dependencies := map[string]handlers.Pinger{}
	if pg.Enabled() {
		dependencies["postgres"] = pg
	}
	if redis != nil {
		dependencies["redis"] = redis
	}

	store := uow.Store()
	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Orders:         handlers.NewOrdersHandler(orderService),
		OrderItems:     handlers.NewOrderItemsHandler(orderService),
		Items:          handlers.NewItemsHandler(catalogService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), revocations, store.Users, store.Customers),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return notifications.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", zap.Error(err))
	}
}
