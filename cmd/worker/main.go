package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/blob"
	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/database"
	"github.com/iliyamo/files-manager/internal/logging"
	"github.com/iliyamo/files-manager/internal/queue"
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
		logger.Fatal("worker stopped", zap.Error(err))
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

	blobs, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	thumbs := &queue.ThumbnailProcessor{Files: stores.Files, Blobs: blobs, Log: logger.Named("thumbnail")}
	welcome := &queue.WelcomeProcessor{Users: stores.Users, Log: logger.Named("welcome")}

	failed := func(body []byte, err error) {
		logger.Warn("job rejected", zap.ByteString("body", body), zap.String("reason", err.Error()))
	}
	consumers := []*queue.Consumer{
		{
			URL:         cfg.RabbitURL,
			Queue:       queue.ThumbnailQueue,
			Concurrency: cfg.WorkerConcurrency,
			Handler:     thumbs.Handle,
			OnFailed:    failed,
			Log:         logger,
		},
		{
			URL:         cfg.RabbitURL,
			Queue:       queue.WelcomeQueue,
			Concurrency: 1,
			Handler:     welcome.Handle,
			OnFailed:    failed,
			Log:         logger,
		},
	}

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("consumer exited", zap.String("queue", c.Queue), zap.Error(err))
			}
		}()
	}
	logger.Info("worker started", zap.Int("concurrency", cfg.WorkerConcurrency))
	wg.Wait()
	logger.Info("worker stopped")
	return nil
}
