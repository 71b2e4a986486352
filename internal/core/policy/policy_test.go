package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
)

type stubPlanFinder struct {
	plans map[string]*domain.Plan
	err   error
	calls int
}

func (f *stubPlanFinder) FindByID(_ context.Context, id string) (*domain.Plan, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return p, nil
}

func seededFinder(t *testing.T) *stubPlanFinder {
	t.Helper()
	now := time.Now().UTC()
	plan, err := domain.NewPlan(domain.NewPlanParams{
		OwnerID:     "owner",
		Description: "sunset swim",
		Type:        domain.PlanBeach,
		Location:    geo.Point{Lat: 19.4, Lng: -99.1},
		Time:        now.Add(time.Hour),
	}, now)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	plan.ID = "p1"
	if _, err := plan.RequestJoin("pending", now); err != nil {
		t.Fatalf("RequestJoin: %v", err)
	}
	if _, err := plan.RequestJoin("member", now); err != nil {
		t.Fatalf("RequestJoin: %v", err)
	}
	if err := plan.Approve("member"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	return &stubPlanFinder{plans: map[string]*domain.Plan{"p1": plan}}
}

func actor(id string) *domain.User { return &domain.User{ID: id} }

var here = &geo.Point{Lat: 19.4, Lng: -99.1}

func TestAuthorize_AnonymousIsUnauthenticated(t *testing.T) {
	table := NewTable(seededFinder(t), Options{CommentRequiresApproval: true})

	for _, op := range []Operation{OpDiscoverPlans, OpCreatePlan, OpApproveMember, OpAddComment, OpListNotifications} {
		err := table.Authorize(context.Background(), op, Subject{PlanID: "p1", Location: here})
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", op, err)
		}
	}
}

func TestAuthorize_MissingLocation(t *testing.T) {
	table := NewTable(seededFinder(t), Options{})

	err := table.Authorize(context.Background(), OpFetchPlan, Subject{Actor: actor("u1"), PlanID: "p1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if err := table.Authorize(context.Background(), OpCreatePlan, Subject{Actor: actor("u1")}); err != nil {
		t.Fatalf("createPlan does not need a location, got %v", err)
	}
}

func TestAuthorize_OwnerRules(t *testing.T) {
	table := NewTable(seededFinder(t), Options{})

	for _, op := range []Operation{OpApproveMember, OpBlockMember, OpRemoveComment} {
		if err := table.Authorize(context.Background(), op, Subject{Actor: actor("owner"), PlanID: "p1"}); err != nil {
			t.Errorf("%s: owner should pass, got %v", op, err)
		}
		if err := table.Authorize(context.Background(), op, Subject{Actor: actor("member"), PlanID: "p1"}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden for non-owner, got %v", op, err)
		}
	}
}

func TestAuthorize_MissingPlanIsForbidden(t *testing.T) {
	table := NewTable(seededFinder(t), Options{})

	err := table.Authorize(context.Background(), OpApproveMember, Subject{Actor: actor("owner"), PlanID: "nope"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("denial must not reveal that the plan is missing")
	}
}

func TestAuthorize_LookupErrorIsForbidden(t *testing.T) {
	finder := seededFinder(t)
	finder.err = errors.New("connection reset")
	table := NewTable(finder, Options{})

	err := table.Authorize(context.Background(), OpAddComment, Subject{Actor: actor("member"), PlanID: "p1"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorize_CommentApprovalVariants(t *testing.T) {
	strict := NewTable(seededFinder(t), Options{CommentRequiresApproval: true})
	loose := NewTable(seededFinder(t), Options{CommentRequiresApproval: false})

	cases := []struct {
		name    string
		table   *Table
		actorID string
		allowed bool
	}{
		{"strict owner", strict, "owner", true},
		{"strict approved", strict, "member", true},
		{"strict pending", strict, "pending", false},
		{"strict stranger", strict, "stranger", false},
		{"loose pending", loose, "pending", true},
		{"loose stranger", loose, "stranger", false},
	}
	for _, tc := range cases {
		err := tc.table.Authorize(context.Background(), OpAddComment, Subject{Actor: actor(tc.actorID), PlanID: "p1"})
		if tc.allowed && err != nil {
			t.Errorf("%s: expected allowed, got %v", tc.name, err)
		}
		if !tc.allowed && !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", tc.name, err)
		}
	}
}

func TestAuthorize_ShortCircuits(t *testing.T) {
	finder := seededFinder(t)
	table := NewTable(finder, Options{})

	_ = table.Authorize(context.Background(), OpApproveMember, Subject{PlanID: "p1"})
	if finder.calls != 0 {
		t.Fatalf("plan lookup should not run after authentication fails, got %d calls", finder.calls)
	}
}

func TestAuthorize_UnknownOperationDenied(t *testing.T) {
	table := NewTable(seededFinder(t), Options{})

	err := table.Authorize(context.Background(), Operation("dropDatabase"), Subject{Actor: actor("owner")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTable_RuleOrder(t *testing.T) {
	table := NewTable(seededFinder(t), Options{})

	rules := table.Rules(OpFetchPlan)
	if len(rules) != 2 || rules[0].Name != "authenticated" || rules[1].Name != "location" {
		t.Fatalf("unexpected rules for fetchPlan: %+v", rules)
	}
}
