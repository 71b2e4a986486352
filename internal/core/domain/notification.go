package domain

import "time"

// NotificationAction names the event a notification reports.
type NotificationAction string

const (
	ActionNewRequest      NotificationAction = "new_request"
	ActionNewComment      NotificationAction = "new_comment"
	ActionRequestApproved NotificationAction = "request_approved"
)

// RefType discriminates the entity a Ref points at.
type RefType string

const (
	RefPlan RefType = "Plan"
	RefUser RefType = "User"
)

// Ref is a polymorphic pointer to a plan or a user.
type Ref struct {
	Type RefType `json:"type"`
	ID   string  `json:"id"`
}

// PlanRef points at a plan.
func PlanRef(id string) Ref { return Ref{Type: RefPlan, ID: id} }

// UserRef points at a user.
func UserRef(id string) Ref { return Ref{Type: RefUser, ID: id} }

// Notification is an (action, source, target) triple addressed to one user.
type Notification struct {
	ID          string
	Action      NotificationAction
	Source      Ref
	Target      Ref
	RecipientID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RefView is a resolved reference. Name is set for users, Description for plans.
type RefView struct {
	Typename    RefType  `json:"__typename"`
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	PlanType    PlanType `json:"type,omitempty"`
}

// NotificationView is a notification with both endpoints resolved.
type NotificationView struct {
	ID      string             `json:"id"`
	Action  NotificationAction `json:"action"`
	Source  RefView            `json:"source"`
	Target  RefView            `json:"target"`
	Created time.Time          `json:"created"`
}
