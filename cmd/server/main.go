package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"storefront/docs"
	"storefront/internal/app"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/router"
	"storefront/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Storefront API
// @version 1.0
// @description Storefront API with JWT authentication, orders, catalog and blog.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer store.Close(context.Background())

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("cache unavailable, serving from store", "addr", cfg.Redis.Addr, "error", err)
	}

	tokens, err := auth.NewJWTService(cfg.JWT.Secret)
	if err != nil {
		log.Fatal("jwt init", "error", err)
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// Initialize services
	authService := service.NewAuthService(store.Users(), tokens, hasher, cfg.Auth.AdminEmails, cacheClient, log)
	userService := service.NewUserService(store.Users(), cacheClient, cfg.Redis.TTL)
	orderService := service.NewOrderService(store, cacheClient, log, service.OrderOptions{
		ClearStaleCancellation: cfg.Orders.ClearStaleCancellation,
	})
	productService := service.NewProductService(store.Products(), cacheClient, cfg.Redis.TTL, log)
	blogService := service.NewBlogService(store.Posts(), log)
	healthService := service.NewHealthService(store, cacheClient)

	e := echo.New()
	router.Register(e, cfg, log, tokens, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService, authService),
		Order:   handler.NewOrderHandler(orderService),
		Product: handler.NewProductHandler(productService),
		Blog:    handler.NewBlogHandler(blogService),
		Seed:    handler.NewSeedHandler(productService, blogService),
		Health:  handler.NewHealthHandler(healthService),
	})

	if cfg.Swagger.Host != "" {
		docs.SwaggerInfo.Host = cfg.Swagger.Host
	}
	log.Info("swagger documentation available", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	go func() {
		addr := ":" + cfg.Server.Port
		log.Info("server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
}
