package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/model"
	"storefront/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	svc         service.UserService
	authService service.AuthService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{svc: svc, authService: authService}
}

// UpdateProfileRequest lists the mutable profile fields. Omitted fields are kept.
type UpdateProfileRequest struct {
	Name         *string        `json:"name"`
	Phone        *string        `json:"phone"`
	Address      *model.Address `json:"address"`
	ProfileImage *string        `json:"profileImage"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetProfile(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), id.UserID, model.ProfilePatch{
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /user/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
