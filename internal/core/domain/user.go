package domain

import "time"

// DefaultReputation is the neutral score a user starts with and the prior the
// rating formula pulls new users toward.
const DefaultReputation = 5.0

// User models an authenticated actor in the system.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	Reputation    float64   `json:"rating"`
	Notifications bool      `json:"push"`
	CreatedAt     time.Time `json:"created"`
	UpdatedAt     time.Time `json:"updated"`
}

// UserSummary is the public face of a user embedded in other projections.
type UserSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Reputation float64 `json:"rating"`
}

// Summary returns the public projection of u. A nil user yields a zero summary.
func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{ID: u.ID, Name: u.Name, Reputation: u.Reputation}
}
