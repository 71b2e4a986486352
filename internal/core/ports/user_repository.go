package ports

import (
	"context"

	"github.com/99minutos/plans-system/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields. Nil leaves a field as is.
type ProfileUpdate struct {
	Name          *string
	Notifications *bool
}

// UserRepository defines user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	SetReputation(ctx context.Context, id string, reputation float64) error
}
