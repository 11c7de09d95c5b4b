package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// LineItemRequest is one product line of a new order.
type LineItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrderRequest represents a new order. ID is accepted as an alias of
// OrderNumber.
type CreateOrderRequest struct {
	ID              string            `json:"id"`
	OrderNumber     string            `json:"orderNumber"`
	Date            string            `json:"date"`
	Items           []LineItemRequest `json:"items" validate:"dive"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          string            `json:"status"`
	Tracking        map[string]any    `json:"tracking"`
	PaymentMethod   map[string]any    `json:"paymentMethod"`
	DeliveryAddress model.Address     `json:"deliveryAddress"`
}

// CancellationRequest carries the reason of a cancellation.
type CancellationRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Comment string `json:"comment"`
}

// UpdateOrderStatusRequest represents a status change.
type UpdateOrderStatusRequest struct {
	Status             string               `json:"status" validate:"required"`
	Tracking           map[string]any       `json:"tracking"`
	CancellationReason *CancellationRequest `json:"cancellationReason"`
}

func (r UpdateOrderStatusRequest) toUpdate() service.StatusUpdate {
	upd := service.StatusUpdate{Status: r.Status, Tracking: r.Tracking}
	if r.CancellationReason != nil {
		upd.Cancellation = &service.CancellationInput{
			Reason:  r.CancellationReason.Reason,
			Comment: r.CancellationReason.Comment,
		}
	}
	return upd
}

// ListOrders godoc
// @Summary List the caller's orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orders, err := h.svc.ListOrders(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// CreateOrder godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	items := make([]model.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = req.ID
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), id.UserID, service.CreateOrderInput{
		OrderNumber:     orderNumber,
		Date:            req.Date,
		Items:           items,
		TotalAmount:     req.TotalAmount,
		Status:          req.Status,
		Tracking:        req.Tracking,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrderStatus godoc
// @Summary Update the status of one of the caller's orders
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateOrderStatusRequest true "Status change"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [put]
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.svc.UpdateOrderStatus(c.Request().Context(), id.UserID, c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ListAllOrders godoc
// @Summary List every order, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.svc.ListAllOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// AdminUpdateOrderStatus godoc
// @Summary Update the status of any order
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateOrderStatusRequest true "Status change"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id} [put]
func (h *OrderHandler) AdminUpdateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.svc.AdminUpdateOrderStatus(c.Request().Context(), c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder godoc
// @Summary Delete an order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	if err := h.svc.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "order deleted"})
}

// ReconcileOrderCounts godoc
// @Summary Recompute every user's order count from stored orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ReconcileResult
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/maintenance/order-counts [post]
func (h *OrderHandler) ReconcileOrderCounts(c echo.Context) error {
	result, err := h.svc.ReconcileOrderCounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
