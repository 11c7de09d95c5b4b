package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
)

type orderRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB, timeout time.Duration) OrderRepository {
	return &orderRepository{db: db, timeout: timeout}
}

// scoped restricts a query to one owner unless ownerID is empty.
func scoped(q *gorm.DB, id, ownerID string) *gorm.DB {
	q = q.Where("id = ?", id)
	if ownerID != "" {
		q = q.Where("user_id = ?", ownerID)
	}
	return q
}

// Create creates a new order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()
	return translate(ctx, r.db.WithContext(ctx).Create(order).Error)
}

// FindByID finds an order by ID, scoped to ownerID when set.
func (r *orderRepository) FindByID(ctx context.Context, id, ownerID string) (*model.Order, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var order model.Order
	if err := scoped(r.db.WithContext(ctx), id, ownerID).First(&order).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &order, nil
}

// ListByUser lists the orders of one user by date, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	orders := []model.Order{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date desc").Find(&orders).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return orders, nil
}

// List lists every order by date, newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	orders := []model.Order{}
	if err := r.db.WithContext(ctx).Order("date desc").Find(&orders).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return orders, nil
}

// UpdateStatus applies change to one order and returns the stored result.
func (r *orderRepository) UpdateStatus(ctx context.Context, id, ownerID string, change model.StatusChange) (*model.Order, error) {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	var updated model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := scoped(tx, id, ownerID).First(&order).Error; err != nil {
			return err
		}

		order.Status = change.Status
		order.UpdatedAt = change.UpdatedAt
		if change.Tracking != nil {
			order.Tracking = change.Tracking
		}
		if change.Cancellation != nil {
			order.Cancellation = change.Cancellation
		} else if change.ClearCancellation {
			order.Cancellation = nil
		}

		if err := tx.Select("status", "tracking", "cancellation", "updated_at").Save(&order).Error; err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, translate(ctx, err)
	}
	return &updated, nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Order{})
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUser returns the number of stored orders per user id.
func (r *orderRepository) CountByUser(ctx context.Context) (map[string]int, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		UserID string
		Total  int
	}
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("user_id, count(*) as total").Group("user_id").Scan(&rows).Error; err != nil {
		return nil, translate(ctx, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}
