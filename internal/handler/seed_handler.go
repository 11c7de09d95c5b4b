package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	productService service.ProductService
	blogService    service.BlogService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(productService service.ProductService, blogService service.BlogService) *SeedHandler {
	return &SeedHandler{productService: productService, blogService: blogService}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedProducts godoc
// @Summary Replace the catalog with the built-in data set
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/products [post]
func (h *SeedHandler) SeedProducts(c echo.Context) error {
	count, err := h.productService.SeedProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeedResponse{Message: "products seeded", Count: count})
}

// SeedBlog godoc
// @Summary Replace the blog with the built-in data set
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/blog [post]
func (h *SeedHandler) SeedBlog(c echo.Context) error {
	count, err := h.blogService.SeedPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeedResponse{Message: "blog posts seeded", Count: count})
}
