// Command reconcile recomputes every user's order count from the orders
// actually stored.
package main

import (
	"context"

	"github.com/joho/godotenv"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", "error", err)
	}
	defer store.Close(ctx)

	res, err := service.NewOrderService(store, nil, log, service.OrderOptions{}).ReconcileOrderCounts(ctx)
	if err != nil {
		log.Fatal("reconcile order counts", "error", err)
	}
	log.Info("order counts reconciled", "users", res.Users, "updated", res.Updated)
}
