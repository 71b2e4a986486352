package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/api/middleware"
	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubPlanService struct {
	discoverFn      func(ctx context.Context, actor ports.Actor, radiusKm float64) ([]domain.PlanView, error)
	fetchFn         func(ctx context.Context, actor ports.Actor, planID string) (*domain.PlanView, error)
	createFn        func(ctx context.Context, actor ports.Actor, in ports.CreatePlanInput) (*domain.PlanView, error)
	joinFn          func(ctx context.Context, actor ports.Actor, planID string) (*domain.PlanView, error)
	approveFn       func(ctx context.Context, actor ports.Actor, planID, userID string) error
	blockFn         func(ctx context.Context, actor ports.Actor, planID, userID string) error
	addCommentFn    func(ctx context.Context, actor ports.Actor, in ports.AddCommentInput) (*domain.CommentView, error)
	removeCommentFn func(ctx context.Context, actor ports.Actor, planID, commentID string) error
	profileFn       func(ctx context.Context, actor ports.Actor) (*ports.Profile, error)
}

func (s *stubPlanService) Discover(ctx context.Context, actor ports.Actor, radiusKm float64) ([]domain.PlanView, error) {
	return s.discoverFn(ctx, actor, radiusKm)
}

func (s *stubPlanService) Fetch(ctx context.Context, actor ports.Actor, planID string) (*domain.PlanView, error) {
	return s.fetchFn(ctx, actor, planID)
}

func (s *stubPlanService) Create(ctx context.Context, actor ports.Actor, in ports.CreatePlanInput) (*domain.PlanView, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubPlanService) RequestJoin(ctx context.Context, actor ports.Actor, planID string) (*domain.PlanView, error) {
	return s.joinFn(ctx, actor, planID)
}

func (s *stubPlanService) Approve(ctx context.Context, actor ports.Actor, planID, userID string) error {
	return s.approveFn(ctx, actor, planID, userID)
}

func (s *stubPlanService) Block(ctx context.Context, actor ports.Actor, planID, userID string) error {
	return s.blockFn(ctx, actor, planID, userID)
}

func (s *stubPlanService) AddComment(ctx context.Context, actor ports.Actor, in ports.AddCommentInput) (*domain.CommentView, error) {
	return s.addCommentFn(ctx, actor, in)
}

func (s *stubPlanService) RemoveComment(ctx context.Context, actor ports.Actor, planID, commentID string) error {
	return s.removeCommentFn(ctx, actor, planID, commentID)
}

func (s *stubPlanService) Profile(ctx context.Context, actor ports.Actor) (*ports.Profile, error) {
	return s.profileFn(ctx, actor)
}

type stubAuthService struct {
	registerFn     func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn        func(ctx context.Context, email, password string) (string, *domain.User, error)
	authenticateFn func(ctx context.Context, token string) (*domain.User, error)
	updateFn       func(ctx context.Context, actor ports.Actor, update ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.authenticateFn(ctx, token)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor ports.Actor, update ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, actor, update)
}

type stubRatingService struct {
	rateFn func(ctx context.Context, actor ports.Actor, in ports.RateInput) error
}

func (s *stubRatingService) Rate(ctx context.Context, actor ports.Actor, in ports.RateInput) error {
	return s.rateFn(ctx, actor, in)
}

type stubLister struct {
	listFn func(ctx context.Context, actor ports.Actor) ([]domain.NotificationView, error)
}

func (s *stubLister) ListFor(ctx context.Context, actor ports.Actor) ([]domain.NotificationView, error) {
	return s.listFn(ctx, actor)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	alice = &domain.User{ID: "u1", Name: "Alice", Reputation: 5}
	cdmx  = geo.Point{Lat: 19.4326, Lng: -99.1332}
)

// newContext builds a request context as the middleware chain would leave it.
func newContext(method, target, body string, user *domain.User, loc *geo.Point) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	if loc != nil {
		c.Set(middleware.LocationKey, loc)
	}
	return c, rec
}

func withParams(c echo.Context, kv ...string) echo.Context {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}
