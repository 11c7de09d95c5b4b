package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/seed"
)

const (
	productsCacheKey        = "products:all"
	expressProductsCacheKey = "products:7m"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	DeliveryTime string
	Image        string
	Stock        int
	Rating       float64
}

// ProductService exposes catalog operations.
type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListExpressProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SeedProducts(ctx context.Context) (int, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewProductService builds a ProductService caching list reads for ttl.
func NewProductService(repo repository.ProductRepository, cache *cache.Client, ttl time.Duration, log *logger.Logger) ProductService {
	return &productService{repo: repo, cache: cache, ttl: ttl, log: log}
}

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name is required")
	}
	if in.Price.IsNegative() {
		return validationError("price must not be negative")
	}
	if in.Stock < 0 {
		return validationError("stock must not be negative")
	}
	return nil
}

func (s *productService) cachedList(ctx context.Context, key string, load func(context.Context) ([]model.Product, error)) ([]model.Product, error) {
	var cached []model.Product
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	products, err := load(ctx)
	if err != nil {
		return nil, storeError(err, nil)
	}
	s.cache.SetJSON(ctx, key, products, s.ttl)
	return products, nil
}

func (s *productService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, productsCacheKey, expressProductsCacheKey)
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.cachedList(ctx, productsCacheKey, s.repo.List)
}

// ListExpressProducts lists products whose category or delivery time is "7m".
func (s *productService) ListExpressProducts(ctx context.Context) ([]model.Product, error) {
	return s.cachedList(ctx, expressProductsCacheKey, s.repo.ListExpress)
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{CreatedAt: now}
	applyProduct(product, in, now)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, storeError(err, nil)
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrProductNotFound)
	}
	applyProduct(product, in, time.Now().UTC())
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, storeError(err, apperrors.ErrProductNotFound)
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, apperrors.ErrProductNotFound)
	}
	s.invalidate(ctx)
	return nil
}

// SeedProducts replaces the catalog with the embedded data set.
func (s *productService) SeedProducts(ctx context.Context) (int, error) {
	products, err := seed.Products(time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceAll(ctx, products); err != nil {
		return 0, fmt.Errorf("replace products: %w", storeError(err, nil))
	}
	s.invalidate(ctx)

	s.log.Info("products seeded", "count", len(products))
	return len(products), nil
}

func applyProduct(p *model.Product, in ProductInput, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.DeliveryTime = in.DeliveryTime
	p.Image = in.Image
	p.Stock = in.Stock
	p.Rating = in.Rating
	p.UpdatedAt = now
}
