package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/lostfound-service/internal/api/http"
	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/observability"
	"github.com/spec-kit/lostfound-service/internal/service"
	"github.com/spec-kit/lostfound-service/internal/storage"
	"github.com/spec-kit/lostfound-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg, logger, cfg.Postgres.RunMigrations)
	if err != nil {
		return err
	}
	defer db.Close()

	revoker, redis := openRevoker(ctx, cfg.Redis, logger)
	defer redis.Close()

	objects, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), logger)

	authService := service.NewAuthService(cfg.Auth, db.store, revoker)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, created, err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Warn("admin seed failed", zap.Error(err))
		} else if created {
			logger.Info("admin account created", zap.String("email", cfg.Admin.Email))
		}
	}

	itemService := service.NewItemService(db.store, dispatcher)
	claimService := service.NewClaimService(db.store, dispatcher, logger)
	messageService := service.NewMessageService(db.store, dispatcher)
	uploadService := service.NewUploadService(objects, cfg.Upload, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), revoker, db.store.Users())

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(httptransport.AppOptions{
		Name:           cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})

	routes := httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db.store, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Items:          handlers.NewItemsHandler(itemService),
		Claims:         handlers.NewClaimsHandler(claimService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Upload:         handlers.NewUploadHandler(uploadService),
		AuthMiddleware: authMiddleware,
	}
	if local, ok := objects.(*storage.LocalStore); ok {
		routes.UploadsDir = local.Dir()
	}
	httptransport.RegisterRoutes(app, routes)

	g, gctx := errgroup.WithContext(ctx)
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
		return err
	}
	return nil
}
