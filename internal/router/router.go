package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/logger"
	appmiddleware "storefront/internal/middleware"
	"storefront/internal/model"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Order   *handler.OrderHandler
	Product *handler.ProductHandler
	Blog    *handler.BlogHandler
	Seed    *handler.SeedHandler
	Health  *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *logger.Logger, tokens *auth.TokenService, h Handlers) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errors.NewErrorHandler(func(c echo.Context, err error) {
		log.Error("request failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err,
		)
	})

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authenticate := appmiddleware.Authenticate(tokens)
	adminOnly := appmiddleware.RequireRole(model.RoleAdmin)

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/health", h.Health.Health)

	api.GET("/products", h.Product.ListProducts)
	api.GET("/products/7m", h.Product.ListExpressProducts)
	api.POST("/products", h.Product.CreateProduct)

	api.GET("/blog", h.Blog.ListPosts)
	api.GET("/blog/category/:category", h.Blog.ListPostsByCategory)
	api.GET("/blog/:id", h.Blog.GetPost)
	api.POST("/blog", h.Blog.CreatePost)
	api.DELETE("/blog/:id", h.Blog.DeletePost, authenticate, adminOnly)

	api.POST("/seed/products", h.Seed.SeedProducts)
	api.POST("/seed/blog", h.Seed.SeedBlog)

	// Secured routes. Middleware is attached per route: a group with
	// middleware on the bare /api prefix would swallow unknown routes.
	api.GET("/user", h.User.GetProfile, authenticate)
	api.PUT("/user", h.User.UpdateProfile, authenticate)
	api.PUT("/user/password", h.User.ChangePassword, authenticate)

	api.GET("/orders", h.Order.ListOrders, authenticate)
	api.POST("/orders", h.Order.CreateOrder, authenticate)
	api.PUT("/orders/:id", h.Order.UpdateOrderStatus, authenticate)

	// Admin routes
	admin := api.Group("/admin", authenticate, adminOnly)
	admin.GET("/users", h.User.ListUsers)
	admin.GET("/orders", h.Order.ListAllOrders)
	admin.PUT("/orders/:id", h.Order.AdminUpdateOrderStatus)
	admin.DELETE("/orders/:id", h.Order.DeleteOrder)
	admin.POST("/maintenance/order-counts", h.Order.ReconcileOrderCounts)
	admin.PUT("/products/:id", h.Product.UpdateProduct)
	admin.DELETE("/products/:id", h.Product.DeleteProduct)
	admin.PUT("/blog/:id", h.Blog.UpdatePost)
	admin.DELETE("/blog/:id", h.Blog.DeletePost)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
