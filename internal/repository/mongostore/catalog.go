package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/model"
	"storefront/internal/repository"
)

type productRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	product.EnsureID()
	_, err := r.coll.InsertOne(ctx, product)
	return translate(ctx, err)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var product model.Product
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product); err != nil {
		return nil, translate(ctx, err)
	}
	return &product, nil
}

func (r *productRepository) find(ctx context.Context, filter any) ([]model.Product, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(ctx, err)
	}
	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, translate(ctx, err)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.find(ctx, bson.D{})
}

func (r *productRepository) ListExpress(ctx context.Context) ([]model.Product, error) {
	return r.find(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "category", Value: model.ExpressDelivery}},
		bson.D{{Key: "deliveryTime", Value: model.ExpressDelivery}},
	}}})
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: product.ID}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: product.Name},
		{Key: "description", Value: product.Description},
		{Key: "price", Value: product.Price},
		{Key: "category", Value: product.Category},
		{Key: "deliveryTime", Value: product.DeliveryTime},
		{Key: "image", Value: product.Image},
		{Key: "stock", Value: product.Stock},
		{Key: "rating", Value: product.Rating},
		{Key: "updatedAt", Value: product.UpdatedAt},
	}}})
	if err != nil {
		return translate(ctx, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, r.timeout)
}

func (r *productRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		products[i].EnsureID()
		docs = append(docs, products[i])
	}
	return replaceAll(ctx, r.coll, docs, r.timeout)
}

type blogRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *blogRepository) Create(ctx context.Context, post *model.BlogPost) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	post.EnsureID()
	_, err := r.coll.InsertOne(ctx, post)
	return translate(ctx, err)
}

func (r *blogRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var post model.BlogPost
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post); err != nil {
		return nil, translate(ctx, err)
	}
	return &post, nil
}

func (r *blogRepository) find(ctx context.Context, filter bson.D) ([]model.BlogPost, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, translate(ctx, err)
	}
	posts := []model.BlogPost{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, translate(ctx, err)
	}
	return posts, nil
}

func (r *blogRepository) List(ctx context.Context) ([]model.BlogPost, error) {
	return r.find(ctx, bson.D{})
}

func (r *blogRepository) ListByCategory(ctx context.Context, category string) ([]model.BlogPost, error) {
	return r.find(ctx, bson.D{{Key: "category", Value: category}})
}

func (r *blogRepository) Update(ctx context.Context, post *model.BlogPost) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: post.ID}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: post.Title},
		{Key: "content", Value: post.Content},
		{Key: "author", Value: post.Author},
		{Key: "category", Value: post.Category},
		{Key: "image", Value: post.Image},
		{Key: "tags", Value: post.Tags},
		{Key: "updatedAt", Value: post.UpdatedAt},
	}}})
	if err != nil {
		return translate(ctx, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, r.timeout)
}

func (r *blogRepository) ReplaceAll(ctx context.Context, posts []model.BlogPost) error {
	docs := make([]interface{}, 0, len(posts))
	for i := range posts {
		posts[i].EnsureID()
		docs = append(docs, posts[i])
	}
	return replaceAll(ctx, r.coll, docs, r.timeout)
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string, timeout time.Duration) error {
	ctx, cancel := writeContext(ctx, timeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(ctx, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// replaceAll empties coll and inserts docs. The two steps are not atomic
// outside a transaction.
func replaceAll(ctx context.Context, coll *mongo.Collection, docs []interface{}, timeout time.Duration) error {
	ctx, cancel := writeContext(ctx, timeout)
	defer cancel()

	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return translate(ctx, err)
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return translate(ctx, err)
}
