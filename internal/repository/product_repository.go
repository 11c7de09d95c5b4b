package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
)

const seedBatchSize = 100

type productRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB, timeout time.Duration) ProductRepository {
	return &productRepository{db: db, timeout: timeout}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()
	return translate(ctx, r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	products := []model.Product{}
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&products).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return products, nil
}

// ListExpress lists products whose category or delivery time is the 7m literal.
func (r *productRepository) ListExpress(ctx context.Context) ([]model.Product, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	products := []model.Product{}
	if err := r.db.WithContext(ctx).
		Where("category = ? OR delivery_time = ?", model.ExpressDelivery, model.ExpressDelivery).
		Order("created_at asc").Find(&products).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", product.ID).
		Select("name", "description", "price", "category", "delivery_time", "image", "stock", "rating", "updated_at").
		Updates(product)
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the whole catalog for products in one transaction.
func (r *productRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, seedBatchSize).Error
	})
	return translate(ctx, err)
}
