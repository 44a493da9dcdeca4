package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/blob"
	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/database"
	"github.com/iliyamo/files-manager/internal/handler"
	"github.com/iliyamo/files-manager/internal/logging"
	"github.com/iliyamo/files-manager/internal/middleware"
	"github.com/iliyamo/files-manager/internal/router"
	"github.com/iliyamo/files-manager/internal/service"
	"github.com/iliyamo/files-manager/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close(context.Background()) }()

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	blobs, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	sessions := session.NewCache(rdb, cfg.SessionTTL, logger.Named("session"))
	publisher := service.NewPublisher(cfg.RabbitURL, logger.Named("publisher"))
	users := service.NewUserService(stores.Users, sessions, publisher, cfg.BcryptCost, logger.Named("users"))
	files := service.NewFileService(stores.Files, blobs, publisher, logger.Named("files"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger.Named("http")))

	router.Register(e, router.Handlers{
		App:   &handler.AppHandler{Cache: sessions, Users: stores.Users, Files: stores.Files, Log: logger},
		Users: &handler.UserHandler{Users: users, Log: logger},
		Auth:  &handler.AuthHandler{Users: users, Log: logger},
		Files: &handler.FileHandler{Files: files, Log: logger},
	}, router.Options{
		Auth:      users,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       logger.Named("middleware"),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.String("db", cfg.DBDriver), zap.String("blob", cfg.Storage.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
