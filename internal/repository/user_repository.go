package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
)

type userRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	return &userRepository{db: db, timeout: timeout}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()
	return translate(ctx, r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	users := []model.User{}
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.ProfileImage != nil {
		updates["profile_image"] = *patch.ProfileImage
	}
	if patch.Address != nil {
		updates["address_street"] = patch.Address.Street
		updates["address_city"] = patch.Address.City
		updates["address_state"] = patch.Address.State
		updates["address_postal_code"] = patch.Address.PostalCode
		updates["address_country"] = patch.Address.Country
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) IncrementOrderCount(ctx context.Context, id string, delta int) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("order_count", gorm.Expr("order_count + ?", delta))
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) SetOrderCount(ctx context.Context, id string, count int) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("order_count", count)
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	return nil
}
