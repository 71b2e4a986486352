package domain

import (
	"time"

	"github.com/99minutos/plans-system/internal/core/geo"
)

// Directory resolves user ids to user records for display. Missing ids render
// with the id only.
type Directory map[string]*User

func (d Directory) summary(id string) UserSummary {
	if u, ok := d[id]; ok && u != nil {
		return u.Summary()
	}
	return UserSummary{ID: id}
}

// Meta carries aggregate figures visible to every actor.
type Meta struct {
	Comments int     `json:"comments"`
	Distance float64 `json:"distance"`
	Going    int     `json:"going"`
	Max      int     `json:"max"`
	Full     bool    `json:"full"`
}

// MemberView is a roster entry as seen by a joined actor.
type MemberView struct {
	UserSummary
	Approved bool      `json:"approved"`
	Joined   time.Time `json:"joined"`
	Owner    bool      `json:"owner"`
	Self     bool      `json:"self"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID      string      `json:"id"`
	Body    string      `json:"body"`
	Pinned  bool        `json:"pinned"`
	User    UserSummary `json:"user"`
	Created time.Time   `json:"created"`
}

// PlanView is the actor- and location-sensitive projection of a plan.
type PlanView struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Type        PlanType      `json:"type"`
	Status      MemberStatus  `json:"status"`
	Time        time.Time     `json:"time"`
	Expires     *time.Time    `json:"expires,omitempty"`
	User        UserSummary   `json:"user"`
	Comments    []CommentView `json:"comments"`
	Members     []MemberView  `json:"members"`
	Meta        Meta          `json:"meta"`
	Created     time.Time     `json:"created"`
	Updated     time.Time     `json:"updated"`
}

// View renders c with its author resolved through users.
func (c Comment) View(users Directory) CommentView {
	return CommentView{
		ID:      c.ID,
		Body:    c.Body,
		Pinned:  c.Pinned,
		User:    users.summary(c.AuthorID),
		Created: c.Created,
	}
}

// Project renders the plan for actorID standing at `at` (nil when unknown).
// Comments and the roster are only exposed to joined actors, as null
// otherwise; within the roster, pending requests are visible to the owner alone.
func (p *Plan) Project(actorID string, at *geo.Point, users Directory) PlanView {
	status := p.StatusFor(actorID)

	v := PlanView{
		ID:          p.ID,
		Description: p.Description,
		Type:        p.Type,
		Status:      status,
		Time:        p.Time,
		User:        users.summary(p.OwnerID),
		Meta: Meta{
			Comments: len(p.Comments),
			Going:    p.ApprovedCount(),
			Max:      p.Capacity,
			Full:     p.Full(),
		},
		Created: p.CreatedAt,
		Updated: p.UpdatedAt,
	}

	if exp := p.ExpiresAt(); !exp.Equal(p.Time) {
		v.Expires = &exp
	}
	if at != nil {
		v.Meta.Distance = geo.Distance(p.Location, *at)
	}

	if status != StatusJoined {
		return v
	}

	v.Comments = make([]CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		v.Comments = append(v.Comments, c.View(users))
	}

	ownerView := p.IsOwner(actorID)
	v.Members = make([]MemberView, 0, len(p.Members))
	for _, m := range p.Members {
		if !ownerView && !m.Approved && m.UserID != actorID {
			continue
		}
		v.Members = append(v.Members, MemberView{
			UserSummary: users.summary(m.UserID),
			Approved:    m.Approved,
			Joined:      m.Joined,
			Owner:       p.IsOwner(m.UserID),
			Self:        m.UserID == actorID,
		})
	}
	return v
}
