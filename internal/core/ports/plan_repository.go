package ports

import (
	"context"
	"time"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
)

// DiscoveryFilter narrows a geo query. Zero values disable each filter.
type DiscoveryFilter struct {
	ExcludeBlocked string    // drop plans whose block-list contains this user id
	ActiveAt       time.Time // drop plans expiring strictly before this instant
}

// PlanRepository persists Plan aggregates as whole documents.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
	// FindByIDs returns the plans that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Plan, error)
	// FindWithin returns plans whose location lies inside the cap.
	FindWithin(ctx context.Context, area geo.Cap, filter DiscoveryFilter) ([]*domain.Plan, error)
	// FindByParticipant returns plans the user owns or holds an entry on.
	FindByParticipant(ctx context.Context, userID string) ([]*domain.Plan, error)
	// Save replaces the stored aggregate; the last writer wins.
	Save(ctx context.Context, plan *domain.Plan) error
}
