package models

import "time"

// ChallengeStatus is the lifecycle state of a challenge.
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeFailed    ChallengeStatus = "failed"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeCancelled ChallengeStatus = "cancelled"
)

// ChallengeNoSpend is the only challenge type currently supported.
const ChallengeNoSpend = "no_spend"

// Challenge is a time-boxed commitment to avoid spending in a category.
// Transitions go from active to exactly one of failed, completed or
// cancelled; those states are terminal. At most one challenge per user is
// active at a time.
type Challenge struct {
	// ID is the unique identifier (UUID format).
	ID string

	// UserID is the owning user.
	UserID int64

	// Type is the challenge kind, currently always ChallengeNoSpend.
	Type string

	// TargetCategory is the category label the user commits to avoid.
	TargetCategory string

	// StartDate is the day the challenge began.
	StartDate time.Time

	// EndDate is the last day the commitment holds.
	EndDate time.Time

	// Status is the current lifecycle state.
	Status ChallengeStatus
}
