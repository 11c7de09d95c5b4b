package repository

import (
	"context"
	"errors"

	"storefront/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique index rejects the write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrTimeout is returned when a store call exceeds its deadline.
	ErrTimeout = errors.New("store timeout")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	IncrementOrderCount(ctx context.Context, id string, delta int) error
	SetOrderCount(ctx context.Context, id string, count int) error
}

// OrderRepository defines order persistence operations. An empty ownerID
// means the lookup is not scoped to an owner.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id, ownerID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id, ownerID string, change model.StatusChange) (*model.Order, error)
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context) (map[string]int, error)
}

// ProductRepository defines catalog persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListExpress(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []model.Product) error
}

// BlogRepository defines blog post persistence operations.
type BlogRepository interface {
	Create(ctx context.Context, post *model.BlogPost) error
	FindByID(ctx context.Context, id string) (*model.BlogPost, error)
	List(ctx context.Context) ([]model.BlogPost, error)
	ListByCategory(ctx context.Context, category string) ([]model.BlogPost, error)
	Update(ctx context.Context, post *model.BlogPost) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, posts []model.BlogPost) error
}

// Store groups the repositories of one backend.
type Store interface {
	Users() UserRepository
	Orders() OrderRepository
	Products() ProductRepository
	Posts() BlogRepository
	// WithTransaction runs fn against a Store bound to a single transaction
	// when the backend supports one, and against the Store itself otherwise.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
