package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/core/domain"
)

// Context keys populated by the middleware in this package.
const (
	UserKey     = "user"
	LocationKey = "location"
)

// TokenResolver turns a bearer token into the user it was issued to.
type TokenResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Identity resolves the bearer token, when present, and injects the user into
// context. Requests without an Authorization header continue anonymously; a
// header that is malformed or names no valid user is rejected with 401. Other
// resolver failures are passed on to the error handler.
func Identity(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := resolver.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if errors.Is(err, domain.ErrUnauthenticated) || (err == nil && user == nil) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if err != nil {
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}
