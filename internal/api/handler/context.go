package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/api/middleware"
	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// actorFrom builds the caller from what the Identity and Location middleware
// injected. Either part may be missing; the policy layer decides whether that
// is acceptable for the operation.
func actorFrom(c echo.Context) ports.Actor {
	user, _ := c.Get(middleware.UserKey).(*domain.User)
	loc, _ := c.Get(middleware.LocationKey).(*geo.Point)
	return ports.Actor{User: user, Location: loc}
}

// bindAndValidate binds the request and runs the registered validator.
// Malformed payloads are 400; rule violations are validation errors (422).
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.Invalid(err.Error())
	}
	return nil
}

type successResponse struct {
	Success bool `json:"success"`
}

// errorBody documents the envelope rendered by the central error handler.
type errorBody struct {
	Error string `json:"error"`
}
