package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/policy"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// NotificationPuller removes notifications made stale by a later action.
type NotificationPuller interface {
	Pull(ctx context.Context, action domain.NotificationAction, source, target domain.Ref) error
}

// PlanService runs the plan lifecycle: every operation is authorized against
// the policy table, applied through the aggregate's methods, persisted, and
// then fanned out as notifications on a best-effort basis.
type PlanService struct {
	plans    ports.PlanRepository
	users    ports.UserRepository
	notifier ports.Notifier
	puller   NotificationPuller
	policy   *policy.Table
	log      zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewPlanService(
	plans ports.PlanRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	puller NotificationPuller,
	table *policy.Table,
	log zerolog.Logger,
) *PlanService {
	return &PlanService{
		plans:    plans,
		users:    users,
		notifier: notifier,
		puller:   puller,
		policy:   table,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func subject(actor ports.Actor, planID string) policy.Subject {
	return policy.Subject{Actor: actor.User, PlanID: planID, Location: actor.Location}
}

// Discover returns projections of every visible plan within radiusKm of the
// actor. Full, expired, and blocked-on plans are left out.
func (s *PlanService) Discover(ctx context.Context, actor ports.Actor, radiusKm float64) (_ []domain.PlanView, err error) {
	ctx, span := startSpan(ctx, "PlanService.Discover", attribute.Float64("radius_km", radiusKm))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpDiscoverPlans, subject(actor, "")); err != nil {
		return nil, err
	}
	if radiusKm < 0 {
		return nil, domain.Invalid("radius must not be negative")
	}

	now := s.now()
	area := geo.DiscoveryQuery(*actor.Location, radiusKm)
	found, err := s.plans.FindWithin(ctx, area, ports.DiscoveryFilter{
		ExcludeBlocked: actor.ID(),
		ActiveAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("discover plans: %w", err)
	}

	visible := make([]*domain.Plan, 0, len(found))
	for _, p := range found {
		if !area.Contains(p.Location) || p.IsBlocked(actor.ID()) || p.Expired(now) || p.Full() {
			continue
		}
		visible = append(visible, p)
	}

	users := s.directory(ctx, visible...)
	views := make([]domain.PlanView, 0, len(visible))
	for _, p := range visible {
		views = append(views, p.Project(actor.ID(), actor.Location, users))
	}
	return views, nil
}

// Fetch returns a single plan. A plan the actor is blocked on is reported as
// not found.
func (s *PlanService) Fetch(ctx context.Context, actor ports.Actor, planID string) (_ *domain.PlanView, err error) {
	ctx, span := startSpan(ctx, "PlanService.Fetch", attribute.String("plan.id", planID))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpFetchPlan, subject(actor, planID)); err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("fetch plan: %w", err)
	}
	if plan.IsBlocked(actor.ID()) {
		return nil, fmt.Errorf("fetch plan: %w", domain.ErrPlanNotFound)
	}

	v := plan.Project(actor.ID(), actor.Location, s.directory(ctx, plan))
	return &v, nil
}

// Create opens a new plan owned by the actor.
func (s *PlanService) Create(ctx context.Context, actor ports.Actor, in ports.CreatePlanInput) (_ *domain.PlanView, err error) {
	ctx, span := startSpan(ctx, "PlanService.Create", attribute.String("plan.type", in.Type))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpCreatePlan, subject(actor, "")); err != nil {
		return nil, err
	}

	plan, err := domain.NewPlan(domain.NewPlanParams{
		OwnerID:     actor.ID(),
		Description: in.Description,
		Type:        domain.PlanType(in.Type),
		Location:    in.Location,
		Capacity:    in.Capacity,
		Time:        in.Time,
		Expires:     in.Expires,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("owner_id", actor.ID()).Msg("failed to create plan")
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.log.Info().Str("plan_id", plan.ID).Str("owner_id", actor.ID()).Str("type", in.Type).Msg("plan created")

	v := plan.Project(actor.ID(), actor.Location, domain.Directory{actor.ID(): actor.User})
	return &v, nil
}

// RequestJoin adds the actor as a pending member and tells the owner. Calling
// it again is a no-op that returns the current projection.
func (s *PlanService) RequestJoin(ctx context.Context, actor ports.Actor, planID string) (_ *domain.PlanView, err error) {
	ctx, span := startSpan(ctx, "PlanService.RequestJoin", attribute.String("plan.id", planID))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpRequestJoin, subject(actor, planID)); err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("request join: %w", err)
	}

	now := s.now()
	added, err := plan.RequestJoin(actor.ID(), now)
	if err != nil {
		return nil, fmt.Errorf("request join: %w", err)
	}

	if added {
		plan.UpdatedAt = now
		if err := s.plans.Save(ctx, plan); err != nil {
			s.log.Error().Err(err).Str("plan_id", planID).Msg("failed to save join request")
			return nil, fmt.Errorf("request join: %w", err)
		}
		s.log.Info().Str("plan_id", planID).Str("user_id", actor.ID()).Msg("join requested")

		s.notify(ctx, domain.ActionNewRequest, domain.UserRef(actor.ID()), domain.PlanRef(plan.ID), plan.OwnerID)
	}

	v := plan.Project(actor.ID(), actor.Location, s.directory(ctx, plan))
	return &v, nil
}

// Approve accepts userID's pending request on the actor's plan.
func (s *PlanService) Approve(ctx context.Context, actor ports.Actor, planID, userID string) (err error) {
	ctx, span := startSpan(ctx, "PlanService.Approve", attribute.String("plan.id", planID), attribute.String("member.id", userID))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpApproveMember, subject(actor, planID)); err != nil {
		return err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("approve member: %w", err)
	}

	m, ok := plan.MemberOf(userID)
	if !ok {
		return fmt.Errorf("approve member: %w", domain.ErrMemberNotFound)
	}
	if m.Approved {
		return nil
	}
	if err := plan.Approve(userID); err != nil {
		return fmt.Errorf("approve member: %w", err)
	}

	plan.UpdatedAt = s.now()
	if err := s.plans.Save(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", planID).Msg("failed to save approval")
		return fmt.Errorf("approve member: %w", err)
	}
	s.log.Info().Str("plan_id", planID).Str("user_id", userID).Msg("member approved")

	s.notify(ctx, domain.ActionRequestApproved, domain.UserRef(actor.ID()), domain.PlanRef(plan.ID), userID)
	return nil
}

// Block removes userID from the actor's plan and bars them from it. Blocking
// is silent: the blocked user is not notified and their pending request
// notification is withdrawn from the owner.
func (s *PlanService) Block(ctx context.Context, actor ports.Actor, planID, userID string) (err error) {
	ctx, span := startSpan(ctx, "PlanService.Block", attribute.String("plan.id", planID), attribute.String("member.id", userID))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpBlockMember, subject(actor, planID)); err != nil {
		return err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("block member: %w", err)
	}
	if err := plan.Block(userID); err != nil {
		return fmt.Errorf("block member: %w", err)
	}

	plan.UpdatedAt = s.now()
	if err := s.plans.Save(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", planID).Msg("failed to save block")
		return fmt.Errorf("block member: %w", err)
	}
	s.log.Info().Str("plan_id", planID).Str("user_id", userID).Msg("member blocked")

	if s.puller != nil {
		if err := s.puller.Pull(ctx, domain.ActionNewRequest, domain.UserRef(userID), domain.PlanRef(plan.ID)); err != nil {
			s.log.Warn().Err(err).Str("plan_id", planID).Str("user_id", userID).Msg("failed to pull join request notification")
		}
	}
	return nil
}

// AddComment posts on the plan and tells every other approved member.
func (s *PlanService) AddComment(ctx context.Context, actor ports.Actor, in ports.AddCommentInput) (_ *domain.CommentView, err error) {
	ctx, span := startSpan(ctx, "PlanService.AddComment", attribute.String("plan.id", in.PlanID))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpAddComment, subject(actor, in.PlanID)); err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByID(ctx, in.PlanID)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	now := s.now()
	c, err := plan.AddComment(domain.Comment{
		ID:       s.newID(),
		Body:     in.Body,
		Pinned:   in.Pinned,
		AuthorID: actor.ID(),
		Created:  now,
	})
	if err != nil {
		return nil, err
	}

	plan.UpdatedAt = now
	if err := s.plans.Save(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", in.PlanID).Msg("failed to save comment")
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.log.Info().Str("plan_id", in.PlanID).Str("comment_id", c.ID).Bool("pinned", c.Pinned).Msg("comment added")

	if recipients := plan.ApprovedMemberIDs(actor.ID()); len(recipients) > 0 {
		note := ports.NotifyInput{
			Action: domain.ActionNewComment,
			Source: domain.UserRef(actor.ID()),
			Target: domain.PlanRef(plan.ID),
		}
		if err := s.notifier.NotifyMany(ctx, note, recipients); err != nil {
			s.log.Warn().Err(err).Str("plan_id", plan.ID).Int("recipients", len(recipients)).Msg("comment notification failed")
		}
	}

	v := c.View(domain.Directory{actor.ID(): actor.User})
	return &v, nil
}

// RemoveComment deletes a comment from the actor's plan.
func (s *PlanService) RemoveComment(ctx context.Context, actor ports.Actor, planID, commentID string) (err error) {
	ctx, span := startSpan(ctx, "PlanService.RemoveComment", attribute.String("plan.id", planID), attribute.String("comment.id", commentID))
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpRemoveComment, subject(actor, planID)); err != nil {
		return err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("remove comment: %w", err)
	}
	if err := plan.RemoveComment(commentID); err != nil {
		return fmt.Errorf("remove comment: %w", err)
	}

	plan.UpdatedAt = s.now()
	if err := s.plans.Save(ctx, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", planID).Msg("failed to save comment removal")
		return fmt.Errorf("remove comment: %w", err)
	}
	s.log.Info().Str("plan_id", planID).Str("comment_id", commentID).Msg("comment removed")
	return nil
}

// Profile returns the actor with projections of every plan they own or hold
// an entry on.
func (s *PlanService) Profile(ctx context.Context, actor ports.Actor) (_ *ports.Profile, err error) {
	ctx, span := startSpan(ctx, "PlanService.Profile")
	defer func() { finishSpan(span, err) }()

	if err := s.policy.Authorize(ctx, policy.OpProfile, subject(actor, "")); err != nil {
		return nil, err
	}

	plans, err := s.plans.FindByParticipant(ctx, actor.ID())
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	users := s.directory(ctx, plans...)
	views := make([]domain.PlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, p.Project(actor.ID(), actor.Location, users))
	}
	return &ports.Profile{User: actor.User, Plans: views}, nil
}

// notify records a single notification; failures are logged and swallowed.
func (s *PlanService) notify(ctx context.Context, action domain.NotificationAction, source, target domain.Ref, recipientID string) {
	in := ports.NotifyInput{
		Action:   action,
		Source:   source,
		Target:   target,
		DedupKey: dedupKey(action, source, target, recipientID),
	}
	if err := s.notifier.Notify(ctx, in, recipientID); err != nil {
		s.log.Warn().Err(err).
			Str("action", string(action)).
			Str("target_id", target.ID).
			Str("recipient_id", recipientID).
			Msg("notification failed")
	}
}

// dedupKey identifies one delivery of an event to one recipient.
func dedupKey(action domain.NotificationAction, source, target domain.Ref, recipientID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", action, source.ID, target.ID, recipientID)
}

// directory loads every user shown in the given plans' projections. A failed
// lookup degrades to id-only summaries.
func (s *PlanService) directory(ctx context.Context, plans ...*domain.Plan) domain.Directory {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range plans {
		for _, id := range p.ParticipantIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return domain.Directory{}
	}

	found, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Int("users", len(ids)).Msg("failed to resolve plan participants")
		return domain.Directory{}
	}
	dir := make(domain.Directory, len(found))
	for _, u := range found {
		dir[u.ID] = u
	}
	return dir
}
