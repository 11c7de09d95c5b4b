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

type orderRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

func ownedFilter(id, ownerID string) bson.D {
	filter := bson.D{{Key: "_id", Value: id}}
	if ownerID != "" {
		filter = append(filter, bson.E{Key: "userId", Value: ownerID})
	}
	return filter
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	order.EnsureID()
	_, err := r.coll.InsertOne(ctx, order)
	return translate(ctx, err)
}

func (r *orderRepository) FindByID(ctx context.Context, id, ownerID string) (*model.Order, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var order model.Order
	if err := r.coll.FindOne(ctx, ownedFilter(id, ownerID)).Decode(&order); err != nil {
		return nil, translate(ctx, err)
	}
	return &order, nil
}

func (r *orderRepository) find(ctx context.Context, filter bson.D) ([]model.Order, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, translate(ctx, err)
	}
	orders := []model.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, translate(ctx, err)
	}
	return orders, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}})
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	return r.find(ctx, bson.D{})
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, ownerID string, change model.StatusChange) (*model.Order, error) {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	set := bson.D{
		{Key: "status", Value: change.Status},
		{Key: "updatedAt", Value: change.UpdatedAt},
	}
	if change.Tracking != nil {
		set = append(set, bson.E{Key: "tracking", Value: change.Tracking})
	}
	update := bson.D{}
	if change.Cancellation != nil {
		set = append(set, bson.E{Key: "cancellationReason", Value: change.Cancellation})
	} else if change.ClearCancellation {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "cancellationReason", Value: ""}}})
	}
	update = append(update, bson.E{Key: "$set", Value: set})

	var order model.Order
	err := r.coll.FindOneAndUpdate(ctx, ownedFilter(id, ownerID), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, translate(ctx, err)
	}
	return &order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(ctx, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *orderRepository) CountByUser(ctx context.Context) (map[string]int, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$userId"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(ctx, err)
	}

	var rows []struct {
		UserID string `bson:"_id"`
		Total  int    `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(ctx, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}
