package service

import (
	"context"
	"time"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// UserService exposes profile operations.
type UserService interface {
	GetProfile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) UserService {
	return &userService{repo: repo, cache: cache, ttl: ttl}
}

func userCacheKey(id string) string {
	return "user:" + id
}

func (s *userService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	s.cache.SetJSON(ctx, userCacheKey(id), user, s.ttl)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	user, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return users, nil
}
