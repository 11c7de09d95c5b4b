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

type userRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	user.EnsureID()
	_, err := r.coll.InsertOne(ctx, user)
	return translate(ctx, err)
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(ctx, err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(ctx, err)
	}
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, translate(ctx, err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Phone != nil {
		set = append(set, bson.E{Key: "phone", Value: *patch.Phone})
	}
	if patch.ProfileImage != nil {
		set = append(set, bson.E{Key: "profileImage", Value: *patch.ProfileImage})
	}
	if patch.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *patch.Address})
	}

	var user model.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, translate(ctx, err)
	}
	return &user, nil
}

func (r *userRepository) updateOne(ctx context.Context, id string, update bson.D) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return translate(ctx, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "passwordHash", Value: hash},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}})
}

func (r *userRepository) IncrementOrderCount(ctx context.Context, id string, delta int) error {
	return r.updateOne(ctx, id, bson.D{{Key: "$inc", Value: bson.D{{Key: "orderCount", Value: delta}}}})
}

func (r *userRepository) SetOrderCount(ctx context.Context, id string, count int) error {
	return r.updateOne(ctx, id, bson.D{{Key: "$set", Value: bson.D{{Key: "orderCount", Value: count}}}})
}
