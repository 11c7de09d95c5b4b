package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CreateOrderInput is the client payload of a new order.
type CreateOrderInput struct {
	OrderNumber     string
	Date            string
	Items           []model.LineItem
	TotalAmount     decimal.Decimal
	Status          string
	Tracking        map[string]any
	PaymentMethod   map[string]any
	DeliveryAddress model.Address
}

// CancellationInput is the client supplied part of a cancellation record.
type CancellationInput struct {
	Reason  string
	Comment string
}

// StatusUpdate is the client payload of a status change. A nil Tracking
// keeps the stored tracking object.
type StatusUpdate struct {
	Status       string
	Tracking     map[string]any
	Cancellation *CancellationInput
}

// ReconcileResult summarizes an order count reconciliation pass.
type ReconcileResult struct {
	Users   int `json:"users"`
	Updated int `json:"updated"`
}

// OrderService drives the order lifecycle.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, userID, orderID string, upd StatusUpdate) (*model.Order, error)
	AdminUpdateOrderStatus(ctx context.Context, orderID string, upd StatusUpdate) (*model.Order, error)
	ListOrders(ctx context.Context, userID string) ([]model.Order, error)
	ListAllOrders(ctx context.Context) ([]model.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	ReconcileOrderCounts(ctx context.Context) (*ReconcileResult, error)
}

// OrderOptions tunes the order lifecycle.
type OrderOptions struct {
	// ClearStaleCancellation drops the cancellation record when an order
	// moves to a status other than Cancelled.
	ClearStaleCancellation bool
	Now                    func() time.Time
}

type orderService struct {
	store      repository.Store
	cache      *cache.Client
	log        *logger.Logger
	clearStale bool
	now        func() time.Time
}

// NewOrderService creates an order service on store.
func NewOrderService(store repository.Store, cache *cache.Client, log *logger.Logger, opts OrderOptions) OrderService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &orderService{
		store:      store,
		cache:      cache,
		log:        log,
		clearStale: opts.ClearStaleCancellation,
		now:        now,
	}
}

func validateOrder(in CreateOrderInput) error {
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return validationError("items[%d]: quantity must be positive", i)
		}
		if item.Price.IsNegative() {
			return validationError("items[%d]: price must not be negative", i)
		}
	}
	if in.TotalAmount.IsNegative() {
		return validationError("totalAmount must not be negative")
	}
	return nil
}

// CreateOrder stores a new order owned by userID and increments the owner's
// order count by one. Without a transaction-capable backend the two writes
// are sequential and ReconcileOrderCounts repairs a missed increment.
func (s *orderService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error) {
	if err := validateOrder(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &model.Order{
		UserID:          userID,
		OrderNumber:     in.OrderNumber,
		Date:            in.Date,
		Items:           in.Items,
		TotalAmount:     in.TotalAmount,
		Status:          in.Status,
		Tracking:        in.Tracking,
		PaymentMethod:   in.PaymentMethod,
		DeliveryAddress: in.DeliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if order.OrderNumber == "" {
		order.OrderNumber = fmt.Sprintf("ORD-%d", now.UnixMilli())
	}
	if order.Date == "" {
		order.Date = now.Format(time.RFC3339)
	}
	if order.Items == nil {
		order.Items = []model.LineItem{}
	}
	if order.Tracking == nil {
		order.Tracking = map[string]any{}
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		// The owner is looked up first so a missing user never leaves an
		// order behind on backends without transactions.
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return fmt.Errorf("find order owner: %w", err)
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.Users().IncrementOrderCount(ctx, userID, 1); err != nil {
			return fmt.Errorf("increment order count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))

	s.log.Info("order created", "user_id", userID, "order_id", order.ID, "order_number", order.OrderNumber)
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, userID, orderID string, upd StatusUpdate) (*model.Order, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.updateStatus(ctx, orderID, userID, upd)
}

// AdminUpdateOrderStatus updates any order regardless of its owner. Callers
// must have checked the admin role.
func (s *orderService) AdminUpdateOrderStatus(ctx context.Context, orderID string, upd StatusUpdate) (*model.Order, error) {
	return s.updateStatus(ctx, orderID, "", upd)
}

func (s *orderService) updateStatus(ctx context.Context, orderID, ownerID string, upd StatusUpdate) (*model.Order, error) {
	if upd.Status == "" {
		return nil, validationError("status is required")
	}

	order, err := s.store.Orders().UpdateStatus(ctx, orderID, ownerID, s.statusChange(upd))
	if err != nil {
		return nil, storeError(err, apperrors.ErrOrderNotFound)
	}

	s.log.Info("order status updated", "order_id", order.ID, "status", order.Status, "scoped", ownerID != "")
	return order, nil
}

// statusChange applies the cancellation rules: a Cancelled status with a
// reason overwrites the record stamped with the current time, a Cancelled
// status without one leaves it untouched.
func (s *orderService) statusChange(upd StatusUpdate) model.StatusChange {
	now := s.now().UTC()
	change := model.StatusChange{
		Status:    upd.Status,
		Tracking:  upd.Tracking,
		UpdatedAt: now,
	}

	switch {
	case upd.Status == model.OrderStatusCancelled:
		if upd.Cancellation != nil {
			change.Cancellation = &model.Cancellation{
				Reason:      upd.Cancellation.Reason,
				Comment:     upd.Cancellation.Comment,
				CancelledAt: now,
			}
		}
	case s.clearStale:
		change.ClearCancellation = true
	}
	return change
}

func (s *orderService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.store.Orders().ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.store.Orders().List(ctx)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return orders, nil
}

// DeleteOrder removes an order and decrements its owner's order count.
func (s *orderService) DeleteOrder(ctx context.Context, orderID string) error {
	var ownerID string
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		order, err := tx.Orders().FindByID(ctx, orderID, "")
		if err != nil {
			return err
		}
		ownerID = order.UserID
		if err := tx.Orders().Delete(ctx, orderID); err != nil {
			return err
		}
		if err := tx.Users().IncrementOrderCount(ctx, ownerID, -1); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("decrement order count: %w", err)
		}
		return nil
	})
	if err != nil {
		return storeError(err, apperrors.ErrOrderNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(ownerID))

	s.log.Info("order deleted", "order_id", orderID, "user_id", ownerID)
	return nil
}

// ReconcileOrderCounts rewrites every user's order count from the stored
// orders. Running it twice is a no-op the second time.
func (s *orderService) ReconcileOrderCounts(ctx context.Context) (*ReconcileResult, error) {
	counts, err := s.store.Orders().CountByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", storeError(err, nil))
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", storeError(err, nil))
	}

	result := &ReconcileResult{Users: len(users)}
	for _, user := range users {
		want := counts[user.ID]
		if user.OrderCount == want {
			continue
		}
		if err := s.store.Users().SetOrderCount(ctx, user.ID, want); err != nil {
			return result, fmt.Errorf("set order count for %s: %w", user.ID, storeError(err, nil))
		}
		_ = s.cache.Delete(ctx, userCacheKey(user.ID))
		s.log.Info("order count repaired", "user_id", user.ID, "from", user.OrderCount, "to", want)
		result.Updated++
	}
	return result, nil
}
