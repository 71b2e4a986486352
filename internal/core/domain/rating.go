package domain

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one rater's score for one ratee. PlanID records the plan the
// score was given in; the (rater, ratee) pair is unique.
type Rating struct {
	ID        string
	RaterID   string
	RateeID   string
	PlanID    string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reputation computes the smoothed score (sum+prior)/(count+1), which starts a
// user with no ratings at DefaultReputation.
func Reputation(sum, count int) float64 {
	return float64(sum+DefaultReputation) / float64(count+1)
}
