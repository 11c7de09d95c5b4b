package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/service"
)

func main() {
	products := flag.Bool("products", true, "replace the product catalog")
	blog := flag.Bool("blog", true, "replace the blog posts")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)
	log.Info("starting seed", "driver", cfg.Store.Driver)

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", "error", err)
	}
	defer store.Close(ctx)

	// The seed runs without a cache; the server's cached catalog expires by TTL.
	if *products {
		n, err := service.NewProductService(store.Products(), nil, cfg.Redis.TTL, log).SeedProducts(ctx)
		if err != nil {
			log.Fatal("seed products", "error", err)
		}
		log.Info("products seeded", "count", n)
	}

	if *blog {
		n, err := service.NewBlogService(store.Posts(), log).SeedPosts(ctx)
		if err != nil {
			log.Fatal("seed blog", "error", err)
		}
		log.Info("blog posts seeded", "count", n)
	}
}
