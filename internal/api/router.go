package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/plans-system/docs"
	"github.com/99minutos/plans-system/internal/api/handler"
	"github.com/99minutos/plans-system/internal/api/middleware"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// Dependencies are the services and probes the router exposes.
type Dependencies struct {
	Plans         ports.PlanService
	Notifications handler.NotificationLister
	Ratings       ports.RatingService
	Auth          ports.AuthService
	Health        map[string]handler.Pinger
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("plans_http"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	planHandler := handler.NewPlanHandler(deps.Plans)
	ratingHandler := handler.NewRatingHandler(deps.Ratings)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	profileHandler := handler.NewProfileHandler(deps.Plans, deps.Auth)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- API v1: identity is optional here; each operation's policy decides ---
	v1 := e.Group("/v1", middleware.Identity(deps.Auth), middleware.Location())

	v1.GET("/plans", planHandler.Discover)
	v1.POST("/plans", planHandler.Create)
	v1.GET("/plans/:plan_id", planHandler.Get)
	v1.POST("/plans/:plan_id/join", planHandler.Join)
	v1.POST("/plans/:plan_id/members/:user_id/approve", planHandler.Approve)
	v1.POST("/plans/:plan_id/members/:user_id/block", planHandler.Block)
	v1.POST("/plans/:plan_id/comments", planHandler.AddComment)
	v1.DELETE("/plans/:plan_id/comments/:comment_id", planHandler.RemoveComment)

	v1.POST("/ratings", ratingHandler.Rate)
	v1.GET("/notifications", notificationHandler.List)

	profile := v1.Group("/profile", middleware.RequireUser())
	profile.GET("", profileHandler.Get)
	profile.PATCH("", profileHandler.Update)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
