package errors

import "errors"

var (
	ErrInvalidBallotInput     = errors.New("invalid ballot input")
	ErrSessionNotFound        = errors.New("voting session not found")
	ErrSessionExpired         = errors.New("voting session has expired")
	ErrAlreadyVoted           = errors.New("ballot already cast for this session")
	ErrVotingNotStarted       = errors.New("voting has not started")
	ErrVotingEnded            = errors.New("voting has ended")
	ErrElectionNotFound       = errors.New("election not found")
	ErrVoterNotFound          = errors.New("voter not found")
	ErrPositionNotOnBallot    = errors.New("position is not on this voter's ballot")
	ErrCandidateNotOnBallot   = errors.New("candidate does not belong to the position")
	ErrSelectionLimitExceeded = errors.New("selection exceeds the position's allowed count")
	ErrIncompleteBallot       = errors.New("every ballot position needs at least one selection")
	ErrEmptyBallot            = errors.New("no positions to vote for")
	ErrBallotSubmissionFailed = errors.New("ballot submission failed")
	ErrInvalidPositionTitle   = errors.New("invalid position title")
	ErrAmbiguousPositionTitle = errors.New("position title matches more than one year qualifier")
)
