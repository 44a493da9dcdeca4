// Package database opens the metadata backend selected by configuration and
// exposes it through the repository interfaces.
package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/repository"
)

// Stores bundles the repositories of one backend with its shutdown hook.
type Stores struct {
	Users repository.UserStore
	Files repository.FileStore
	Close func(ctx context.Context) error
}

// OpenStores connects to cfg.DBDriver, prepares the schema or indexes and
// returns ready repositories.
func OpenStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		db, err := OpenMySQL(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err := EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("mysql schema: %w", err)
		}
		log.Info("metadata backend ready", zap.String("driver", cfg.DBDriver), zap.String("db", cfg.DBName))
		return &Stores{
			Users: repository.NewUserRepo(db),
			Files: repository.NewFileRepo(db),
			Close: func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		users := repository.NewMongoUserRepo(db)
		files := repository.NewMongoFileRepo(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		if err := files.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info("metadata backend ready", zap.String("driver", cfg.DBDriver), zap.String("db", cfg.MongoDB))
		return &Stores{Users: users, Files: files, Close: client.Disconnect}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
