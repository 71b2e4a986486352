package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/policy"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// RatingService upserts ratings and keeps each ratee's reputation current.
type RatingService struct {
	ratings ports.RatingRepository
	users   ports.UserRepository
	policy  *policy.Table
	log     zerolog.Logger

	now func() time.Time
}

func NewRatingService(ratings ports.RatingRepository, users ports.UserRepository, table *policy.Table, log zerolog.Logger) *RatingService {
	return &RatingService{
		ratings: ratings,
		users:   users,
		policy:  table,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Rate stores the actor's score for in.RateeID and recomputes the ratee's
// reputation. Re-submitting an unchanged score skips the recompute.
func (s *RatingService) Rate(ctx context.Context, actor ports.Actor, in ports.RateInput) (err error) {
	ctx, span := startSpan(ctx, "RatingService.Rate",
		attribute.String("ratee.id", in.RateeID),
		attribute.Int("score", in.Score),
	)
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpRateUser, subject(actor, in.PlanID)); err != nil {
		return err
	}
	if err := validateRating(actor.ID(), in); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, in.RateeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("rated user does not exist")
		}
		return fmt.Errorf("rate user: %w", err)
	}

	now := s.now()
	existing, err := s.ratings.FindByPair(ctx, actor.ID(), in.RateeID)
	switch {
	case errors.Is(err, domain.ErrRatingNotFound):
		existing = nil
	case err != nil:
		return fmt.Errorf("rate user: %w", err)
	}

	if existing != nil && existing.Score == in.Score && existing.PlanID == in.PlanID {
		s.log.Debug().Str("rater_id", actor.ID()).Str("ratee_id", in.RateeID).Msg("rating unchanged")
		return nil
	}

	rating := &domain.Rating{
		RaterID:   actor.ID(),
		RateeID:   in.RateeID,
		PlanID:    in.PlanID,
		Score:     in.Score,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		s.log.Error().Err(err).Str("ratee_id", in.RateeID).Msg("failed to upsert rating")
		return fmt.Errorf("rate user: %w", err)
	}

	sum, count, err := s.ratings.Totals(ctx, in.RateeID)
	if err != nil {
		return fmt.Errorf("rate user: totals: %w", err)
	}
	reputation := domain.Reputation(sum, count)
	if err := s.users.SetReputation(ctx, in.RateeID, reputation); err != nil {
		s.log.Error().Err(err).Str("ratee_id", in.RateeID).Msg("failed to store reputation")
		return fmt.Errorf("rate user: %w", err)
	}

	s.log.Info().
		Str("rater_id", actor.ID()).
		Str("ratee_id", in.RateeID).
		Int("score", in.Score).
		Float64("reputation", reputation).
		Msg("user rated")
	return nil
}

func validateRating(raterID string, in ports.RateInput) error {
	switch {
	case in.Score < domain.MinScore || in.Score > domain.MaxScore:
		return domain.Invalid(fmt.Sprintf("score must be between %d and %d", domain.MinScore, domain.MaxScore))
	case strings.TrimSpace(in.PlanID) == "":
		return domain.Invalid("plan is required")
	case strings.TrimSpace(in.RateeID) == "":
		return domain.Invalid("user is required")
	case in.RateeID == raterID:
		return domain.Invalid("users cannot rate themselves")
	}
	return nil
}
