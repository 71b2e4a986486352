package ports

import (
	"context"
	"time"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
)

// Actor is the caller of a core operation. User is nil for anonymous callers
// and Location is nil when no coordinate was supplied.
type Actor struct {
	User     *domain.User
	Location *geo.Point
}

// ID returns the actor's user id, or "" when anonymous.
func (a Actor) ID() string {
	if a.User == nil {
		return ""
	}
	return a.User.ID
}

// CreatePlanInput carries the fields of a new plan.
type CreatePlanInput struct {
	Description string
	Type        string
	Location    geo.Point
	Capacity    int
	Time        time.Time
	Expires     time.Time // optional
}

// AddCommentInput carries a new comment.
type AddCommentInput struct {
	PlanID string
	Body   string
	Pinned bool
}

// RateInput carries one score.
type RateInput struct {
	Score   int
	PlanID  string
	RateeID string
}

// Profile is the actor's own user record with every plan they take part in.
type Profile struct {
	User  *domain.User      `json:"user"`
	Plans []domain.PlanView `json:"plans"`
}

// PlanService exposes the plan lifecycle.
type PlanService interface {
	Discover(ctx context.Context, actor Actor, radiusKm float64) ([]domain.PlanView, error)
	Fetch(ctx context.Context, actor Actor, planID string) (*domain.PlanView, error)
	Create(ctx context.Context, actor Actor, in CreatePlanInput) (*domain.PlanView, error)
	RequestJoin(ctx context.Context, actor Actor, planID string) (*domain.PlanView, error)
	Approve(ctx context.Context, actor Actor, planID, userID string) error
	Block(ctx context.Context, actor Actor, planID, userID string) error
	AddComment(ctx context.Context, actor Actor, in AddCommentInput) (*domain.CommentView, error)
	RemoveComment(ctx context.Context, actor Actor, planID, commentID string) error
	Profile(ctx context.Context, actor Actor) (*Profile, error)
}

// NotificationService lists and cleans up notifications.
type NotificationService interface {
	Notifier
	ListFor(ctx context.Context, actor Actor) ([]domain.NotificationView, error)
	Pull(ctx context.Context, action domain.NotificationAction, source, target domain.Ref) error
}

// RatingService records ratings and rolls them into reputation.
type RatingService interface {
	Rate(ctx context.Context, actor Actor, in RateInput) error
}

// AuthService handles credentials and identity resolution.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor Actor, update ProfileUpdate) (*domain.User, error)
}
