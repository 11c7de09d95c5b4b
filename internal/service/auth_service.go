package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// RegisterInput carries the profile of a new user.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Phone        string
	Address      model.Address
	ProfileImage string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	admins map[string]struct{}
	cache  *cache.Client
	log    *logger.Logger
}

// NewAuthService creates a new authentication service. Users registering
// with one of adminEmails get the admin role.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	hasher *auth.PasswordHasher,
	adminEmails []string,
	cache *cache.Client,
	log *logger.Logger,
) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &authService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		admins: admins,
		cache:  cache,
		log:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password and returns a fresh token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, validationError("email is required")
	}
	if in.Password == "" {
		return nil, validationError("password is required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", storeError(err, nil))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := model.RoleUser
	if _, ok := s.admins[email]; ok {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        in.Phone,
		Address:      in.Address,
		ProfileImage: in.ProfileImage,
		OrderCount:   0,
		Role:         role,
	}
	user.EnsureID()
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", storeError(err, nil))
	}

	token, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail alike.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", storeError(err, nil))
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Debug("login rejected", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ChangePassword replaces the password hash after checking the current
// password. Tokens issued before the change stay valid until they expire.
func (s *authService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if next == "" {
		return validationError("new password is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}
	if !s.hasher.Compare(user.PasswordHash, current) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))

	s.log.Info("password changed", "user_id", userID)
	return nil
}

func identityOf(user *model.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}
