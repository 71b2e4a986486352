package ports

import (
	"context"

	"github.com/99minutos/plans-system/internal/core/domain"
)

// RatingRepository stores one rating per (rater, ratee) pair.
type RatingRepository interface {
	FindByPair(ctx context.Context, raterID, rateeID string) (*domain.Rating, error)
	// Upsert inserts or replaces the pair's rating.
	Upsert(ctx context.Context, r *domain.Rating) error
	// Totals returns the sum and count of every score the ratee received.
	Totals(ctx context.Context, rateeID string) (sum, count int, err error)
}
