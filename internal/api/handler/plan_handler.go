package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/api/metrics"
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// PlanHandler handles HTTP requests for plan operations. Errors are returned
// to the central error handler.
type PlanHandler struct {
	service ports.PlanService
}

func NewPlanHandler(service ports.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// Discover handles GET /v1/plans.
//
// @Summary      Discover plans near the caller
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        Location  header    string   true  "Caller coordinate as lat,lng"
// @Param        radius    query     number   true  "Search radius in kilometres"
// @Success      200       {array}   domain.PlanView
// @Failure      401       {object}  errorBody
// @Failure      422       {object}  errorBody
// @Router       /v1/plans [get]
func (h *PlanHandler) Discover(c echo.Context) error {
	var req discoverPlansRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	views, err := h.service.Discover(c.Request().Context(), actorFrom(c), req.Radius)
	if err != nil {
		return err
	}
	metrics.PlansDiscoveredTotal.Observe(float64(len(views)))

	return c.JSON(http.StatusOK, views)
}

// Get handles GET /v1/plans/:plan_id.
//
// @Summary      Get a plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        Location  header    string  true  "Caller coordinate as lat,lng"
// @Param        plan_id   path      string  true  "Plan id"
// @Success      200       {object}  domain.PlanView
// @Failure      401       {object}  errorBody
// @Failure      404       {object}  errorBody
// @Router       /v1/plans/{plan_id} [get]
func (h *PlanHandler) Get(c echo.Context) error {
	view, err := h.service.Fetch(c.Request().Context(), actorFrom(c), c.Param("plan_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /v1/plans.
//
// @Summary      Create a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPlanRequest  true  "Plan details"
// @Success      201   {object}  domain.PlanView
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /v1/plans [post]
func (h *PlanHandler) Create(c echo.Context) error {
	var req createPlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreatePlanInput{
		Description: req.Description,
		Type:        req.Type,
		Location:    geo.Point{Lat: *req.Location.Lat, Lng: *req.Location.Lng},
		Capacity:    req.Max,
		Time:        *req.Time,
	}
	if req.Expires != nil {
		in.Expires = *req.Expires
	}

	view, err := h.service.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	metrics.PlansCreatedTotal.WithLabelValues(string(view.Type)).Inc()

	return c.JSON(http.StatusCreated, view)
}

// Join handles POST /v1/plans/:plan_id/join.
//
// @Summary      Request to join a plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        Location  header    string  true  "Caller coordinate as lat,lng"
// @Param        plan_id   path      string  true  "Plan id"
// @Success      200       {object}  domain.PlanView
// @Failure      401       {object}  errorBody
// @Failure      404       {object}  errorBody
// @Router       /v1/plans/{plan_id}/join [post]
func (h *PlanHandler) Join(c echo.Context) error {
	view, err := h.service.RequestJoin(c.Request().Context(), actorFrom(c), c.Param("plan_id"))
	if err != nil {
		return err
	}
	metrics.PlanActionsTotal.WithLabelValues("join").Inc()
	return c.JSON(http.StatusOK, view)
}

// Approve handles POST /v1/plans/:plan_id/members/:user_id/approve.
//
// @Summary      Approve a join request
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        plan_id  path      string  true  "Plan id"
// @Param        user_id  path      string  true  "Requesting user id"
// @Success      200      {object}  successResponse
// @Failure      403      {object}  errorBody
// @Failure      404      {object}  errorBody
// @Router       /v1/plans/{plan_id}/members/{user_id}/approve [post]
func (h *PlanHandler) Approve(c echo.Context) error {
	if err := h.service.Approve(c.Request().Context(), actorFrom(c), c.Param("plan_id"), c.Param("user_id")); err != nil {
		return err
	}
	metrics.PlanActionsTotal.WithLabelValues("approve").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// Block handles POST /v1/plans/:plan_id/members/:user_id/block.
//
// @Summary      Block a user from a plan
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        plan_id  path      string  true  "Plan id"
// @Param        user_id  path      string  true  "User id to block"
// @Success      200      {object}  successResponse
// @Failure      403      {object}  errorBody
// @Failure      422      {object}  errorBody
// @Router       /v1/plans/{plan_id}/members/{user_id}/block [post]
func (h *PlanHandler) Block(c echo.Context) error {
	if err := h.service.Block(c.Request().Context(), actorFrom(c), c.Param("plan_id"), c.Param("user_id")); err != nil {
		return err
	}
	metrics.PlanActionsTotal.WithLabelValues("block").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// AddComment handles POST /v1/plans/:plan_id/comments.
//
// @Summary      Comment on a plan
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        plan_id  path      string             true  "Plan id"
// @Param        body     body      addCommentRequest  true  "Comment"
// @Success      201      {object}  domain.CommentView
// @Failure      403      {object}  errorBody
// @Failure      422      {object}  errorBody
// @Router       /v1/plans/{plan_id}/comments [post]
func (h *PlanHandler) AddComment(c echo.Context) error {
	var req addCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.AddComment(c.Request().Context(), actorFrom(c), ports.AddCommentInput{
		PlanID: c.Param("plan_id"),
		Body:   req.Body,
		Pinned: req.Pinned,
	})
	if err != nil {
		return err
	}
	metrics.PlanActionsTotal.WithLabelValues("comment").Inc()
	return c.JSON(http.StatusCreated, view)
}

// RemoveComment handles DELETE /v1/plans/:plan_id/comments/:comment_id.
//
// @Summary      Remove a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        plan_id     path      string  true  "Plan id"
// @Param        comment_id  path      string  true  "Comment id"
// @Success      200         {object}  successResponse
// @Failure      403         {object}  errorBody
// @Failure      404         {object}  errorBody
// @Router       /v1/plans/{plan_id}/comments/{comment_id} [delete]
func (h *PlanHandler) RemoveComment(c echo.Context) error {
	if err := h.service.RemoveComment(c.Request().Context(), actorFrom(c), c.Param("plan_id"), c.Param("comment_id")); err != nil {
		return err
	}
	metrics.PlanActionsTotal.WithLabelValues("uncomment").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
