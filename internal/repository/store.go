package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// Models lists every table managed by the GORM store.
var Models = []interface{}{
	&model.User{},
	&model.Order{},
	&model.Product{},
	&model.BlogPost{},
}

// GormStore is a Store backed by GORM.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormStore creates a GORM-backed store bounding each call by timeout.
func NewGormStore(db *gorm.DB, timeout time.Duration) *GormStore {
	return &GormStore{db: db, timeout: timeout}
}

// Migrate creates or updates every table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (s *GormStore) Users() UserRepository       { return NewUserRepository(s.db, s.timeout) }
func (s *GormStore) Orders() OrderRepository     { return NewOrderRepository(s.db, s.timeout) }
func (s *GormStore) Products() ProductRepository { return NewProductRepository(s.db, s.timeout) }
func (s *GormStore) Posts() BlogRepository       { return NewBlogRepository(s.db, s.timeout) }

// WithTransaction executes fn within a database transaction.
func (s *GormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	ctx, cancel := writeContext(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormStore{db: tx, timeout: s.timeout})
	})
	return translate(ctx, err)
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// readContext bounds a read by timeout.
func readContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// writeContext bounds a write by timeout and detaches it from client
// cancellation so an in-flight write completes after a disconnect.
func writeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// translate maps GORM and context errors to the package sentinels.
func translate(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return err
	}
}
