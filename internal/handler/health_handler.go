package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// HealthHandler reports backend connectivity.
type HealthHandler struct {
	health *service.HealthService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(health *service.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health godoc
// @Summary Liveness and store connectivity
// @Tags health
// @Produce json
// @Success 200 {object} service.Health
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.Check(c.Request().Context()))
}
