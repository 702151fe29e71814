package domain

import "time"

// Outcome is a user's verdict on an issued account.
type Outcome string

const (
	OutcomeWorking    Outcome = "working"
	OutcomeNotWorking Outcome = "not_working"
)

// ParseOutcome validates a wire-level outcome string.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeWorking, OutcomeNotWorking:
		return Outcome(s), nil
	}
	return "", ErrInvalidOutcome
}

// Review is a user's allocation state. One row per user: created on the first
// allocation, flipped to reviewed on submission, never deleted so the last
// issued account stays auditable.
type Review struct {
	UserID     int64
	Platform   string
	Credential string
	Pending    bool
	IssuedAt   time.Time
	Outcome    Outcome
	ReviewedAt *time.Time
}

// ReviewEvent is emitted for the admin channel after a review is recorded.
type ReviewEvent struct {
	UserID     int64
	Platform   string
	Credential string
	Outcome    Outcome
}
