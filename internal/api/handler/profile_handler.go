package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/core/ports"
)

// ProfileHandler serves the caller's own record. Reads go through the plan
// service, which projects the caller's plans; writes go through auth.
type ProfileHandler struct {
	plans ports.PlanService
	auth  ports.AuthService
}

func NewProfileHandler(plans ports.PlanService, auth ports.AuthService) *ProfileHandler {
	return &ProfileHandler{plans: plans, auth: auth}
}

type updateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Push *bool   `json:"push,omitempty"`
}

// Get handles GET /v1/profile.
//
// @Summary      Get the caller's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        Location  header    string  true  "Caller coordinate as lat,lng"
// @Success      200       {object}  ports.Profile
// @Failure      401       {object}  errorBody
// @Failure      422       {object}  errorBody
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.plans.Profile(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Update handles PATCH /v1/profile.
//
// @Summary      Update the caller's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /v1/profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), actorFrom(c), ports.ProfileUpdate{
		Name:          req.Name,
		Notifications: req.Push,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
