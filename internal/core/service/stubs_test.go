package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Plans
// ---------------------------------------------------------------------------

type stubPlanRepo struct {
	byID    map[string]*domain.Plan
	seq     int
	saveErr error
	findErr error
	saves   int
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{byID: make(map[string]*domain.Plan)}
}

func clonePlan(p *domain.Plan) *domain.Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Members = append([]domain.Member(nil), p.Members...)
	c.Comments = append([]domain.Comment(nil), p.Comments...)
	c.Blocked = append([]string(nil), p.Blocked...)
	return &c
}

func (r *stubPlanRepo) Create(_ context.Context, p *domain.Plan) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.seq++
	p.ID = fmt.Sprintf("plan-%d", r.seq)
	r.byID[p.ID] = clonePlan(p)
	return nil
}

func (r *stubPlanRepo) FindByID(_ context.Context, id string) (*domain.Plan, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return clonePlan(p), nil
}

func (r *stubPlanRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Plan, error) {
	var out []*domain.Plan
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, clonePlan(p))
		}
	}
	return out, nil
}

// FindWithin ignores the filter so the service's own filtering is exercised.
func (r *stubPlanRepo) FindWithin(_ context.Context, area geo.Cap, _ ports.DiscoveryFilter) ([]*domain.Plan, error) {
	var out []*domain.Plan
	for _, id := range r.sortedIDs() {
		if p := r.byID[id]; area.Contains(p.Location) {
			out = append(out, clonePlan(p))
		}
	}
	return out, nil
}

func (r *stubPlanRepo) FindByParticipant(_ context.Context, userID string) ([]*domain.Plan, error) {
	var out []*domain.Plan
	for _, id := range r.sortedIDs() {
		p := r.byID[id]
		if _, ok := p.MemberOf(userID); ok || p.OwnerID == userID {
			out = append(out, clonePlan(p))
		}
	}
	return out, nil
}

func (r *stubPlanRepo) Save(_ context.Context, p *domain.Plan) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrPlanNotFound
	}
	r.saves++
	r.byID[p.ID] = clonePlan(p)
	return nil
}

func (r *stubPlanRepo) sortedIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Notifications != nil {
		u.Notifications = *update.Notifications
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetReputation(_ context.Context, id string, reputation float64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Reputation = reputation
	return nil
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

type sentNotification struct {
	in        ports.NotifyInput
	recipient string
}

type stubNotifier struct {
	err  error
	sent []sentNotification
	bulk int
}

func (n *stubNotifier) Notify(_ context.Context, in ports.NotifyInput, recipientID string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{in: in, recipient: recipientID})
	return nil
}

func (n *stubNotifier) NotifyMany(_ context.Context, in ports.NotifyInput, recipientIDs []string) error {
	if n.err != nil {
		return n.err
	}
	n.bulk++
	for _, id := range recipientIDs {
		n.sent = append(n.sent, sentNotification{in: in, recipient: id})
	}
	return nil
}

type pulled struct {
	action         domain.NotificationAction
	source, target domain.Ref
}

type stubPuller struct {
	err    error
	pulled []pulled
}

func (p *stubPuller) Pull(_ context.Context, action domain.NotificationAction, source, target domain.Ref) error {
	p.pulled = append(p.pulled, pulled{action: action, source: source, target: target})
	return p.err
}

type stubNotificationRepo struct {
	items       []*domain.Notification
	insertErr   error
	manyCalls   int
	singleCalls int
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.singleCalls++
	r.store(n)
	return nil
}

func (r *stubNotificationRepo) InsertMany(_ context.Context, ns []*domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.manyCalls++
	for _, n := range ns {
		r.store(n)
	}
	return nil
}

func (r *stubNotificationRepo) store(n *domain.Notification) {
	c := *n
	c.ID = fmt.Sprintf("n-%d", len(r.items)+1)
	r.items = append(r.items, &c)
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubNotificationRepo) DeleteMatching(_ context.Context, action domain.NotificationAction, source, target domain.Ref) (int64, error) {
	kept := r.items[:0]
	var n int64
	for _, item := range r.items {
		if item.Action == action && item.Source == source && item.Target == target {
			n++
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return n, nil
}

type stubDedup struct {
	seen    map[string]bool
	dupErr  error
	markErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, key string) (bool, error) {
	if d.dupErr != nil {
		return false, d.dupErr
	}
	return d.seen[key], nil
}

func (d *stubDedup) Mark(_ context.Context, key string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.seen[key] = true
	return nil
}

// ---------------------------------------------------------------------------
// Ratings
// ---------------------------------------------------------------------------

type stubRatingRepo struct {
	byPair  map[[2]string]*domain.Rating
	upserts int
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{byPair: make(map[[2]string]*domain.Rating)}
}

func (r *stubRatingRepo) FindByPair(_ context.Context, raterID, rateeID string) (*domain.Rating, error) {
	rt, ok := r.byPair[[2]string{raterID, rateeID}]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	c := *rt
	return &c, nil
}

func (r *stubRatingRepo) Upsert(_ context.Context, rt *domain.Rating) error {
	r.upserts++
	c := *rt
	if c.ID == "" {
		c.ID = fmt.Sprintf("r-%d", len(r.byPair)+1)
	}
	r.byPair[[2]string{rt.RaterID, rt.RateeID}] = &c
	return nil
}

func (r *stubRatingRepo) Totals(_ context.Context, rateeID string) (int, int, error) {
	sum, count := 0, 0
	for _, rt := range r.byPair {
		if rt.RateeID == rateeID {
			sum += rt.Score
			count++
		}
	}
	return sum, count, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	testNow = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	cdmx    = geo.Point{Lat: 19.4326, Lng: -99.1332}
)

func fixedClock() time.Time { return testNow }

func actorAt(u *domain.User, loc *geo.Point) ports.Actor {
	return ports.Actor{User: u, Location: loc}
}

func here() *geo.Point {
	p := cdmx
	return &p
}
