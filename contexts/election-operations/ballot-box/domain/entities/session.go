package entities

import (
	"time"

	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
)

// VotingSession is a single-use, time-bounded authorization for one voter to
// cast one ballot in one election. HasVoted transitions false to true at most
// once; the flip itself happens only inside the ballot box cast transaction.
type VotingSession struct {
	Token      string
	VoterID    string
	ElectionID string
	HasVoted   bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Validate is the read-only session guard check. It mutates nothing; callers
// run it once when building the ballot view and again immediately before the
// atomic cast.
func (s VotingSession) Validate(now time.Time) error {
	if s.HasVoted {
		return domainerrors.ErrAlreadyVoted
	}
	if now.After(s.ExpiresAt) {
		return domainerrors.ErrSessionExpired
	}
	return nil
}
