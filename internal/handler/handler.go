package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/middleware"
)

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return auth.Identity{}, errors.ErrUnauthenticated
	}
	return id, nil
}
