package middleware

import (
	"errors"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
)

const claimsKey = "claims"

// Authenticate verifies the bearer token of every request. A missing token
// fails with ErrUnauthenticated, a rejected one with the verification error.
// The verified identity is stored in the request context.
func Authenticate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (interface{}, error) {
			return tokens.Verify(raw)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(claimsKey).(*auth.Claims)
			if !ok {
				return
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), claims.Identity())))
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			var extraction *echojwt.TokenExtractionError
			if errors.As(err, &extraction) {
				return apperrors.ErrUnauthenticated
			}
			if errors.Is(err, apperrors.ErrExpiredToken) || errors.Is(err, apperrors.ErrInvalidToken) {
				var parsing *echojwt.TokenParsingError
				if errors.As(err, &parsing) {
					return parsing.Err
				}
				return err
			}
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
		},
	})
}

// RequireRole rejects identities without role. It must run after Authenticate.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.IdentityFromContext(c.Request().Context())
			if !ok {
				return apperrors.ErrUnauthenticated
			}
			if id.Role != role {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// Identity returns the identity attached by Authenticate.
func Identity(c echo.Context) (auth.Identity, bool) {
	return auth.IdentityFromContext(c.Request().Context())
}
