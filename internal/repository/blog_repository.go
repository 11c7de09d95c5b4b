package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront/internal/model"
)

type blogRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewBlogRepository creates a new blog post repository.
func NewBlogRepository(db *gorm.DB, timeout time.Duration) BlogRepository {
	return &blogRepository{db: db, timeout: timeout}
}

func (r *blogRepository) Create(ctx context.Context, post *model.BlogPost) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()
	return translate(ctx, r.db.WithContext(ctx).Create(post).Error)
}

func (r *blogRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	var post model.BlogPost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &post, nil
}

func (r *blogRepository) List(ctx context.Context) ([]model.BlogPost, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	posts := []model.BlogPost{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return posts, nil
}

func (r *blogRepository) ListByCategory(ctx context.Context, category string) ([]model.BlogPost, error) {
	ctx, cancel := readContext(ctx, r.timeout)
	defer cancel()

	posts := []model.BlogPost{}
	if err := r.db.WithContext(ctx).Where("category = ?", category).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return posts, nil
}

func (r *blogRepository) Update(ctx context.Context, post *model.BlogPost) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.BlogPost{}).Where("id = ?", post.ID).
		Select("title", "content", "author", "category", "image", "tags", "updated_at").
		Updates(post)
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BlogPost{})
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps every post for posts in one transaction.
func (r *blogRepository) ReplaceAll(ctx context.Context, posts []model.BlogPost) error {
	ctx, cancel := writeContext(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.BlogPost{}).Error; err != nil {
			return err
		}
		if len(posts) == 0 {
			return nil
		}
		return tx.CreateInBatches(posts, seedBatchSize).Error
	})
	return translate(ctx, err)
}
