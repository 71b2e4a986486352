package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/api/metrics"
	"github.com/99minutos/plans-system/internal/core/ports"
)

type RatingHandler struct {
	service ports.RatingService
}

func NewRatingHandler(service ports.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// Rate handles POST /v1/ratings.
//
// @Summary      Rate another user
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      rateUserRequest  true  "Score, plan and rated user"
// @Success      200   {object}  successResponse
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /v1/ratings [post]
func (h *RatingHandler) Rate(c echo.Context) error {
	var req rateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.service.Rate(c.Request().Context(), actorFrom(c), ports.RateInput{
		Score:   req.Score,
		PlanID:  req.Plan,
		RateeID: req.User,
	})
	if err != nil {
		return err
	}
	metrics.RatingsTotal.WithLabelValues(strconv.Itoa(req.Score)).Inc()

	return c.JSON(http.StatusOK, successResponse{Success: true})
}
