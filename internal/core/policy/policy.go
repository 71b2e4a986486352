// Package policy authorizes core operations. Each operation maps to an ordered
// list of rules that must all pass before the operation body runs.
package policy

import (
	"context"
	"fmt"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
)

// Operation names a guarded core operation.
type Operation string

const (
	OpDiscoverPlans     Operation = "discoverPlans"
	OpFetchPlan         Operation = "fetchPlan"
	OpCreatePlan        Operation = "createPlan"
	OpRequestJoin       Operation = "requestJoin"
	OpApproveMember     Operation = "approveMember"
	OpBlockMember       Operation = "blockMember"
	OpAddComment        Operation = "addComment"
	OpRemoveComment     Operation = "removeComment"
	OpRateUser          Operation = "rateUser"
	OpListNotifications Operation = "listNotifications"
	OpProfile           Operation = "profile"
	OpUpdateProfile     Operation = "updateProfile"
)

// PlanFinder is the lookup the ownership and membership predicates need.
type PlanFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
}

// Subject is what a rule is evaluated against. Actor is nil for anonymous
// callers; Location is nil when the caller sent no coordinate.
type Subject struct {
	Actor    *domain.User
	PlanID   string
	Location *geo.Point
}

func (s Subject) actorID() string {
	if s.Actor == nil {
		return ""
	}
	return s.Actor.ID
}

// Predicate evaluates one condition. A lookup error counts as a failure.
type Predicate func(ctx context.Context, s Subject) (bool, error)

// Rule pairs a predicate with the error returned when it does not hold.
type Rule struct {
	Name  string
	Check Predicate
	Deny  error
}

var errLocationRequired = domain.Invalid("location is required")

// IsAuthenticated holds when an actor identity was resolved.
func IsAuthenticated(_ context.Context, s Subject) (bool, error) {
	return s.actorID() != "", nil
}

// HasLocation holds when the caller supplied a coordinate.
func HasLocation(_ context.Context, s Subject) (bool, error) {
	return s.Location != nil, nil
}

// IsPlanOwner holds when the actor owns the subject plan.
func IsPlanOwner(plans PlanFinder) Predicate {
	return func(ctx context.Context, s Subject) (bool, error) {
		plan, err := plans.FindByID(ctx, s.PlanID)
		if err != nil {
			return false, err
		}
		return plan.IsOwner(s.actorID()), nil
	}
}

// IsPlanMember holds when the actor has an entry on the subject plan. With
// requireApproved the entry must also be approved.
func IsPlanMember(plans PlanFinder, requireApproved bool) Predicate {
	return func(ctx context.Context, s Subject) (bool, error) {
		plan, err := plans.FindByID(ctx, s.PlanID)
		if err != nil {
			return false, err
		}
		m, ok := plan.MemberOf(s.actorID())
		if !ok || s.actorID() == "" {
			return false, nil
		}
		return m.Approved || !requireApproved, nil
	}
}

// Options tunes the variant-dependent rules.
type Options struct {
	// CommentRequiresApproval makes commenting require an approved entry
	// rather than any entry.
	CommentRequiresApproval bool
}

// Table maps each operation to its ordered rules.
type Table struct {
	rules map[Operation][]Rule
}

// NewTable builds the rule table for the plan service.
func NewTable(plans PlanFinder, opts Options) *Table {
	authenticated := Rule{Name: "authenticated", Check: IsAuthenticated, Deny: domain.ErrUnauthenticated}
	located := Rule{Name: "location", Check: HasLocation, Deny: errLocationRequired}
	owner := Rule{Name: "plan_owner", Check: IsPlanOwner(plans), Deny: domain.ErrForbidden}
	member := Rule{Name: "plan_member", Check: IsPlanMember(plans, opts.CommentRequiresApproval), Deny: domain.ErrForbidden}

	return &Table{rules: map[Operation][]Rule{
		OpDiscoverPlans:     {authenticated, located},
		OpFetchPlan:         {authenticated, located},
		OpRequestJoin:       {authenticated, located},
		OpProfile:           {authenticated, located},
		OpCreatePlan:        {authenticated},
		OpRateUser:          {authenticated},
		OpListNotifications: {authenticated},
		OpUpdateProfile:     {authenticated},
		OpApproveMember:     {authenticated, owner},
		OpBlockMember:       {authenticated, owner},
		OpRemoveComment:     {authenticated, owner},
		OpAddComment:        {authenticated, member},
	}}
}

// Rules returns the rules guarding op.
func (t *Table) Rules(op Operation) []Rule {
	return t.rules[op]
}

// Authorize evaluates every rule for op in order and returns the first
// failing rule's Deny error. Unknown operations are denied.
func (t *Table) Authorize(ctx context.Context, op Operation, s Subject) error {
	rules, ok := t.rules[op]
	if !ok {
		return fmt.Errorf("no rules for %s: %w", op, domain.ErrForbidden)
	}
	for _, r := range rules {
		ok, err := r.Check(ctx, s)
		if err != nil || !ok {
			return r.Deny
		}
	}
	return nil
}
