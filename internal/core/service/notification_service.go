package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/policy"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// refResolver renders every id of one reference type. Ids it cannot find are
// simply absent from the result.
type refResolver func(ctx context.Context, ids []string) (map[string]domain.RefView, error)

// NotificationService writes notification records and renders them for their
// recipient.
type NotificationService struct {
	repo      ports.NotificationRepository
	dedup     DedupChecker
	policy    *policy.Table
	resolvers map[domain.RefType]refResolver
	log       zerolog.Logger

	now func() time.Time
}

// NewNotificationService wires the store and the per-type reference resolvers.
// dedup may be nil to disable duplicate suppression.
func NewNotificationService(
	repo ports.NotificationRepository,
	plans ports.PlanRepository,
	users ports.UserRepository,
	dedup DedupChecker,
	table *policy.Table,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		repo:   repo,
		dedup:  dedup,
		policy: table,
		resolvers: map[domain.RefType]refResolver{
			domain.RefPlan: resolvePlans(plans),
			domain.RefUser: resolveUsers(users),
		},
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func resolvePlans(plans ports.PlanRepository) refResolver {
	return func(ctx context.Context, ids []string) (map[string]domain.RefView, error) {
		found, err := plans.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[string]domain.RefView, len(found))
		for _, p := range found {
			out[p.ID] = domain.RefView{
				Typename:    domain.RefPlan,
				ID:          p.ID,
				Description: p.Description,
				PlanType:    p.Type,
			}
		}
		return out, nil
	}
}

func resolveUsers(users ports.UserRepository) refResolver {
	return func(ctx context.Context, ids []string) (map[string]domain.RefView, error) {
		found, err := users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[string]domain.RefView, len(found))
		for _, u := range found {
			out[u.ID] = domain.RefView{Typename: domain.RefUser, ID: u.ID, Name: u.Name}
		}
		return out, nil
	}
}

// Notify records one notification for recipientID.
func (s *NotificationService) Notify(ctx context.Context, in ports.NotifyInput, recipientID string) error {
	if recipientID == "" {
		return domain.Invalid("recipient is required")
	}
	return s.NotifyMany(ctx, in, []string{recipientID})
}

// NotifyMany records the same event for every recipient in a single write.
func (s *NotificationService) NotifyMany(ctx context.Context, in ports.NotifyInput, recipientIDs []string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	if in.DedupKey != "" && s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, in.DedupKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", in.DedupKey).Msg("dedup check failed, notifying anyway")
		} else if isDup {
			s.log.Debug().Str("key", in.DedupKey).Msg("duplicate notification skipped")
			return nil
		}
	}

	now := s.now()
	records := make([]*domain.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		records = append(records, &domain.Notification{
			Action:      in.Action,
			Source:      in.Source,
			Target:      in.Target,
			RecipientID: id,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	var err error
	if len(records) == 1 {
		err = s.repo.Insert(ctx, records[0])
	} else {
		err = s.repo.InsertMany(ctx, records)
	}
	if err != nil {
		return fmt.Errorf("notify %s: %w", in.Action, err)
	}

	if in.DedupKey != "" && s.dedup != nil {
		if err := s.dedup.Mark(ctx, in.DedupKey); err != nil {
			s.log.Warn().Err(err).Str("key", in.DedupKey).Msg("failed to set dedup key")
		}
	}

	s.log.Debug().
		Str("action", string(in.Action)).
		Str("target_id", in.Target.ID).
		Int("recipients", len(records)).
		Msg("notifications recorded")
	return nil
}

// ListFor returns the actor's notifications, oldest first, with sources and
// targets resolved. References that no longer resolve render with their id.
func (s *NotificationService) ListFor(ctx context.Context, actor ports.Actor) (_ []domain.NotificationView, err error) {
	ctx, span := startSpan(ctx, "NotificationService.ListFor")
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpListNotifications, subject(actor, "")); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByRecipient(ctx, actor.ID())
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	pending := make(map[domain.RefType][]string)
	for _, n := range items {
		pending[n.Source.Type] = append(pending[n.Source.Type], n.Source.ID)
		pending[n.Target.Type] = append(pending[n.Target.Type], n.Target.ID)
	}

	resolved := make(map[domain.RefType]map[string]domain.RefView, len(pending))
	for typ, ids := range pending {
		resolve, ok := s.resolvers[typ]
		if !ok {
			continue
		}
		views, err := resolve(ctx, dedupe(ids))
		if err != nil {
			s.log.Warn().Err(err).Str("type", string(typ)).Msg("failed to resolve notification references")
			continue
		}
		resolved[typ] = views
	}

	ref := func(r domain.Ref) domain.RefView {
		if v, ok := resolved[r.Type][r.ID]; ok {
			return v
		}
		return domain.RefView{Typename: r.Type, ID: r.ID}
	}

	out := make([]domain.NotificationView, 0, len(items))
	for _, n := range items {
		out = append(out, domain.NotificationView{
			ID:      n.ID,
			Action:  n.Action,
			Source:  ref(n.Source),
			Target:  ref(n.Target),
			Created: n.CreatedAt,
		})
	}
	return out, nil
}

// Pull deletes every notification matching (action, source, target).
func (s *NotificationService) Pull(ctx context.Context, action domain.NotificationAction, source, target domain.Ref) (err error) {
	ctx, span := startSpan(ctx, "NotificationService.Pull",
		attribute.String("action", string(action)),
		attribute.String("target.id", target.ID),
	)
	defer func() { finishSpan(span, err) }()

	n, err := s.repo.DeleteMatching(ctx, action, source, target)
	if err != nil {
		return fmt.Errorf("pull notifications: %w", err)
	}
	s.log.Debug().Str("action", string(action)).Str("target_id", target.ID).Int64("deleted", n).Msg("notifications pulled")
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
