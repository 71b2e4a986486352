package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/core/domain"
)

// RequireUser rejects anonymous requests before they reach the handler.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, _ := c.Get(UserKey).(*domain.User); user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
