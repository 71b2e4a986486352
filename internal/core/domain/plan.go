package domain

import (
	"strings"
	"time"

	"github.com/99minutos/plans-system/internal/core/geo"
)

// PlanType is the closed set of activities a plan can describe.
type PlanType string

const (
	PlanBeach       PlanType = "beach"
	PlanConcert     PlanType = "concert"
	PlanEducational PlanType = "educational"
	PlanMovie       PlanType = "movie"
	PlanRoadTrip    PlanType = "road_trip"
	PlanShopping    PlanType = "shopping"
)

var planTypes = map[PlanType]struct{}{
	PlanBeach:       {},
	PlanConcert:     {},
	PlanEducational: {},
	PlanMovie:       {},
	PlanRoadTrip:    {},
	PlanShopping:    {},
}

// Valid reports whether t is one of the known plan types.
func (t PlanType) Valid() bool {
	_, ok := planTypes[t]
	return ok
}

// MemberStatus is the relationship between an actor and a plan. It is derived
// from the member list, never stored.
type MemberStatus string

const (
	StatusNew       MemberStatus = "new"
	StatusRequested MemberStatus = "requested"
	StatusJoined    MemberStatus = "joined"
)

// Member is one user's entry in a plan. Existence means "requested";
// Approved means "joined".
type Member struct {
	UserID   string    `json:"user_id"`
	Joined   time.Time `json:"joined"`
	Approved bool      `json:"approved"`
}

// Comment is a message posted on a plan.
type Comment struct {
	ID       string    `json:"id"`
	Body     string    `json:"body"`
	Pinned   bool      `json:"pinned"`
	AuthorID string    `json:"author_id"`
	Created  time.Time `json:"created"`
}

// Plan is the core aggregate root. Members and Comments have no identity
// outside it and are only changed through its methods.
type Plan struct {
	ID          string
	OwnerID     string
	Description string
	Type        PlanType
	Time        time.Time
	Expires     time.Time
	Location    geo.Point
	Capacity    int
	Members     []Member
	Comments    []Comment
	Blocked     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlanParams carries everything needed to open a plan.
type NewPlanParams struct {
	OwnerID     string
	Description string
	Type        PlanType
	Location    geo.Point
	Capacity    int
	Time        time.Time
	Expires     time.Time // zero means "expires at Time"
}

// NewPlan validates params and returns a plan with the owner enrolled as an
// approved member.
func NewPlan(p NewPlanParams, now time.Time) (*Plan, error) {
	switch {
	case p.OwnerID == "":
		return nil, ErrUnauthenticated
	case strings.TrimSpace(p.Description) == "":
		return nil, Invalid("description is required")
	case p.Type == "":
		return nil, Invalid("type is required")
	case !p.Type.Valid():
		return nil, Invalid("type must be one of: beach concert educational movie road_trip shopping")
	case p.Time.IsZero():
		return nil, Invalid("time is required")
	case !p.Location.Valid():
		return nil, Invalid("location is out of range")
	case p.Capacity < 0:
		return nil, Invalid("max must not be negative")
	}

	expires := p.Expires
	if expires.IsZero() {
		expires = p.Time
	}
	if expires.Before(p.Time) {
		return nil, Invalid("expires must not be before time")
	}

	return &Plan{
		OwnerID:     p.OwnerID,
		Description: strings.TrimSpace(p.Description),
		Type:        p.Type,
		Time:        p.Time.UTC(),
		Expires:     expires.UTC(),
		Location:    p.Location,
		Capacity:    p.Capacity,
		Members:     []Member{{UserID: p.OwnerID, Joined: now, Approved: true}},
		Comments:    []Comment{},
		Blocked:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ExpiresAt returns the explicit expiry, falling back to the nominal time.
func (p *Plan) ExpiresAt() time.Time {
	if p.Expires.IsZero() {
		return p.Time
	}
	return p.Expires
}

// Expired reports whether the plan's expiry is strictly before now.
func (p *Plan) Expired(now time.Time) bool {
	return p.ExpiresAt().Before(now)
}

// IsOwner reports whether userID owns the plan.
func (p *Plan) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// IsBlocked reports whether userID is on the block-list.
func (p *Plan) IsBlocked(userID string) bool {
	for _, id := range p.Blocked {
		if id == userID {
			return true
		}
	}
	return false
}

func (p *Plan) memberIndex(userID string) int {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return i
		}
	}
	return -1
}

// MemberOf returns userID's entry, if any.
func (p *Plan) MemberOf(userID string) (Member, bool) {
	if i := p.memberIndex(userID); i >= 0 {
		return p.Members[i], true
	}
	return Member{}, false
}

// StatusFor derives the actor-relative state: new → requested → joined.
func (p *Plan) StatusFor(userID string) MemberStatus {
	m, ok := p.MemberOf(userID)
	switch {
	case !ok || userID == "":
		return StatusNew
	case m.Approved:
		return StatusJoined
	default:
		return StatusRequested
	}
}

// ApprovedCount is the number of members with approved entries, owner included.
func (p *Plan) ApprovedCount() int {
	n := 0
	for _, m := range p.Members {
		if m.Approved {
			n++
		}
	}
	return n
}

// Full reports whether the soft capacity has been reached. Capacity 0 never fills.
func (p *Plan) Full() bool {
	return p.Capacity > 0 && p.ApprovedCount() >= p.Capacity
}

// RequestJoin appends an unapproved entry for userID. It reports false when the
// user already has an entry. Blocked users get ErrPlanNotFound so the plan's
// existence is not revealed.
func (p *Plan) RequestJoin(userID string, now time.Time) (bool, error) {
	if p.IsBlocked(userID) {
		return false, ErrPlanNotFound
	}
	if p.memberIndex(userID) >= 0 {
		return false, nil
	}
	p.Members = append(p.Members, Member{UserID: userID, Joined: now})
	return true, nil
}

// Approve marks userID's entry approved. Approving an approved member is a no-op.
func (p *Plan) Approve(userID string) error {
	i := p.memberIndex(userID)
	if i < 0 {
		return ErrMemberNotFound
	}
	p.Members[i].Approved = true
	return nil
}

// Block removes any entry for userID and adds it to the block-list.
func (p *Plan) Block(userID string) error {
	if userID == "" {
		return Invalid("user id is required")
	}
	if p.IsOwner(userID) {
		return Invalid("the owner cannot be blocked")
	}
	if i := p.memberIndex(userID); i >= 0 {
		p.Members = append(p.Members[:i], p.Members[i+1:]...)
	}
	if !p.IsBlocked(userID) {
		p.Blocked = append(p.Blocked, userID)
	}
	return nil
}

// AddComment appends c, downgrading Pinned unless the author owns the plan, and
// returns the stored comment.
func (p *Plan) AddComment(c Comment) (Comment, error) {
	if strings.TrimSpace(c.Body) == "" {
		return Comment{}, Invalid("body is required")
	}
	if !p.IsOwner(c.AuthorID) {
		c.Pinned = false
	}
	p.Comments = append(p.Comments, c)
	return c, nil
}

// RemoveComment deletes the comment with the given id.
func (p *Plan) RemoveComment(commentID string) error {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return ErrCommentNotFound
}

// ApprovedMemberIDs lists approved members in roster order, skipping except.
func (p *Plan) ApprovedMemberIDs(except string) []string {
	ids := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		if m.Approved && m.UserID != except {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// ParticipantIDs lists the owner, every member and every comment author once,
// for resolving display names in projections.
func (p *Plan) ParticipantIDs() []string {
	seen := make(map[string]struct{}, len(p.Members)+1)
	ids := make([]string, 0, len(p.Members)+1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(p.OwnerID)
	for _, m := range p.Members {
		add(m.UserID)
	}
	for _, c := range p.Comments {
		add(c.AuthorID)
	}
	return ids
}
