package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "storefront/internal/errors"
)

// TokenExpiry is the fixed validity window of every issued token.
const TokenExpiry = 24 * time.Hour

// ErrNoSubject is returned by Issue for an identity without a user id.
var ErrNoSubject = errors.New("token identity has no user id")

// Tokens are issued on millisecond boundaries and expire at exactly
// issuance+TokenExpiry. Claims are serialized with microseconds so the float
// round trip of exp can be rounded back to the millisecond in Verify.
func init() {
	jwt.TimePrecision = time.Microsecond
}

// Claims represents JWT claims.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the caller identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// TokenService handles JWT token generation and validation.
type TokenService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTService creates a new JWT service with the given secret. An empty
// secret is rejected; there is no fallback key.
func NewJWTService(secret string) (*TokenService, error) {
	return NewJWTServiceWithClock(secret, time.Now)
}

// NewJWTServiceWithClock is NewJWTService with an injectable clock.
func NewJWTServiceWithClock(secret string, now func() time.Time) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return &TokenService{
		secret: []byte(secret),
		now:    now,
		// Expiry is checked against the injected clock below.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Issue generates a signed token for the identity, valid for TokenExpiry.
func (s *TokenService) Issue(id Identity) (string, error) {
	if id.UserID == "" {
		return "", ErrNoSubject
	}
	now := s.now().Truncate(time.Millisecond)
	claims := &Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Round(time.Millisecond)) {
		return nil, apperrors.ErrExpiredToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}

	return claims, nil
}
