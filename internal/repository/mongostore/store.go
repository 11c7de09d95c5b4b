package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/repository"
)

const (
	usersCollection    = "users"
	ordersCollection   = "orders"
	productsCollection = "products"
	postsCollection    = "blogposts"
)

// Store is a repository.Store backed by a MongoDB database.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	timeout      time.Duration
	transactions bool
}

var _ repository.Store = (*Store)(nil)

// New creates a store on database. With transactions enabled, WithTransaction
// uses a multi-document transaction, which requires a replica set.
func New(client *mongo.Client, database string, timeout time.Duration, transactions bool) *Store {
	return &Store{
		client:       client,
		db:           client.Database(database),
		timeout:      timeout,
		transactions: transactions,
	}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{coll: s.db.Collection(usersCollection), timeout: s.timeout}
}

func (s *Store) Orders() repository.OrderRepository {
	return &orderRepository{coll: s.db.Collection(ordersCollection), timeout: s.timeout}
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepository{coll: s.db.Collection(productsCollection), timeout: s.timeout}
}

func (s *Store) Posts() repository.BlogRepository {
	return &blogRepository{coll: s.db.Collection(postsCollection), timeout: s.timeout}
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "deliveryTime", Value: 1}}},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
	}

	for name, models := range indexes {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err := s.db.Collection(name).Indexes().CreateMany(ctx, models)
		cancel()
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// WithTransaction runs fn in a session transaction when enabled. Without
// transactions the writes inside fn are applied one by one.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if !s.transactions {
		return fn(ctx, s)
	}

	ctx, cancel := writeContext(ctx, s.timeout)
	defer cancel()

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return translate(ctx, err)
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// DropAll drops every collection of the store.
func (s *Store) DropAll(ctx context.Context) error {
	for _, name := range []string{usersCollection, ordersCollection, productsCollection, postsCollection} {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

func readContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// writeContext detaches a write from client cancellation. Session values
// carried by ctx survive, so writes still join an open transaction.
func writeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func translate(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrDuplicateKey), errors.Is(err, repository.ErrTimeout):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicateKey
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", repository.ErrTimeout, err)
	default:
		return err
	}
}
