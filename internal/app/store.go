package app

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/repository/mongostore"
)

// OpenStore connects the configured backend and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := db.NewMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client, cfg.Mongo.Database, cfg.Store.Timeout, cfg.Mongo.Transactions)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		if !cfg.Mongo.Transactions {
			log.Warn("mongo transactions disabled; order counts may drift until reconciled")
		}
		log.Info("connected to mongo", "database", cfg.Mongo.Database)
		return store, nil

	case config.DriverMySQL:
		gormDB, err := db.NewMySQL(cfg.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		store := repository.NewGormStore(gormDB, cfg.Store.Timeout)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		log.Info("connected to mysql")
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
