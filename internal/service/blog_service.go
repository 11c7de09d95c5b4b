package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/seed"
)

// PostInput carries the writable fields of a blog post.
type PostInput struct {
	Title    string
	Content  string
	Author   string
	Category string
	Image    string
	Tags     []string
}

// BlogService exposes blog operations.
type BlogService interface {
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	GetPost(ctx context.Context, id string) (*model.BlogPost, error)
	ListPostsByCategory(ctx context.Context, category string) ([]model.BlogPost, error)
	CreatePost(ctx context.Context, in PostInput) (*model.BlogPost, error)
	UpdatePost(ctx context.Context, id string, in PostInput) (*model.BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	SeedPosts(ctx context.Context) (int, error)
}

type blogService struct {
	repo repository.BlogRepository
	log  *logger.Logger
}

// NewBlogService builds a BlogService.
func NewBlogService(repo repository.BlogRepository, log *logger.Logger) BlogService {
	return &blogService{repo: repo, log: log}
}

func (s *blogService) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return posts, nil
}

func (s *blogService) GetPost(ctx context.Context, id string) (*model.BlogPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrPostNotFound)
	}
	return post, nil
}

func (s *blogService) ListPostsByCategory(ctx context.Context, category string) ([]model.BlogPost, error) {
	posts, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return posts, nil
}

func (s *blogService) CreatePost(ctx context.Context, in PostInput) (*model.BlogPost, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationError("title is required")
	}

	now := time.Now().UTC()
	post := &model.BlogPost{CreatedAt: now}
	applyPost(post, in, now)
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, storeError(err, nil)
	}
	return post, nil
}

func (s *blogService) UpdatePost(ctx context.Context, id string, in PostInput) (*model.BlogPost, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationError("title is required")
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrPostNotFound)
	}
	applyPost(post, in, time.Now().UTC())
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, storeError(err, apperrors.ErrPostNotFound)
	}
	return post, nil
}

func (s *blogService) DeletePost(ctx context.Context, id string) error {
	return storeError(s.repo.Delete(ctx, id), apperrors.ErrPostNotFound)
}

// SeedPosts replaces the blog with the embedded data set.
func (s *blogService) SeedPosts(ctx context.Context) (int, error) {
	posts, err := seed.Posts(time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceAll(ctx, posts); err != nil {
		return 0, fmt.Errorf("replace posts: %w", storeError(err, nil))
	}

	s.log.Info("blog seeded", "count", len(posts))
	return len(posts), nil
}

func applyPost(p *model.BlogPost, in PostInput, now time.Time) {
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	p.Author = in.Author
	p.Category = in.Category
	p.Image = in.Image
	p.Tags = in.Tags
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.UpdatedAt = now
}
