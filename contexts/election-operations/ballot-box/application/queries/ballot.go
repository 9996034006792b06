package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "evotar/contexts/election-operations/ballot-box/application"
	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
	"evotar/contexts/election-operations/ballot-box/domain/services"
	"evotar/contexts/election-operations/ballot-box/ports"
)

// BallotStatus is the voter-facing flow state for one (voter, election) pair.
// The not_started and ended statuses are decided from the election window
// alone, before any session lookup happens.
type BallotStatus string

const (
	BallotStatusNotStarted    BallotStatus = "not_started"
	BallotStatusEnded         BallotStatus = "ended"
	BallotStatusNoSession     BallotStatus = "no_session"
	BallotStatusExpired       BallotStatus = "session_expired"
	BallotStatusAlreadyVoted  BallotStatus = "already_voted"
	BallotStatusNothingToVote BallotStatus = "nothing_to_vote"
	BallotStatusReady         BallotStatus = "ready"
)

type BallotCandidate struct {
	CandidateID string
	FullName    string
	Course      string
	YearLevel   int
	PhotoURL    string
}

type BallotPosition struct {
	PositionID  string
	Title       string
	Cardinality int
	Candidates  []BallotCandidate
}

type BallotView struct {
	ElectionID       string
	ElectionTitle    string
	Status           BallotStatus
	StartsAt         time.Time
	EndsAt           time.Time
	SessionExpiresAt time.Time
	Positions        []BallotPosition
}

// BallotQueryUseCase answers "what may this voter act on right now". It is the
// first of the two session guard invocations; the cast command repeats the
// guard immediately before the atomic store call.
type BallotQueryUseCase struct {
	Sessions ports.SessionRepository
	Catalog  ports.CatalogRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc BallotQueryUseCase) GetBallot(ctx context.Context, voterID string, electionID string) (BallotView, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)
	if voterID == "" || electionID == "" {
		return BallotView{}, domainerrors.ErrInvalidBallotInput
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}

	election, err := uc.Catalog.GetElection(ctx, electionID)
	if err != nil {
		return BallotView{}, err
	}
	view := BallotView{
		ElectionID:    election.ElectionID,
		ElectionTitle: election.Title,
		StartsAt:      election.StartsAt,
		EndsAt:        election.EndsAt,
	}

	if now.Before(election.StartsAt) {
		view.Status = BallotStatusNotStarted
		return view, nil
	}
	if now.After(election.EndsAt) {
		view.Status = BallotStatusEnded
		return view, nil
	}

	session, found, err := uc.Sessions.GetSession(ctx, voterID, electionID)
	if err != nil {
		return BallotView{}, err
	}
	if !found {
		view.Status = BallotStatusNoSession
		return view, nil
	}
	view.SessionExpiresAt = session.ExpiresAt
	if err := session.Validate(now); err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
			view.Status = BallotStatusAlreadyVoted
		case errors.Is(err, domainerrors.ErrSessionExpired):
			view.Status = BallotStatusExpired
		default:
			return BallotView{}, err
		}
		return view, nil
	}

	voter, err := uc.Catalog.GetVoter(ctx, voterID)
	if err != nil {
		return BallotView{}, err
	}
	positions, err := uc.Catalog.ListPositions(ctx, electionID)
	if err != nil {
		return BallotView{}, err
	}
	candidates, err := uc.Catalog.ListCandidates(ctx, electionID)
	if err != nil {
		return BallotView{}, err
	}

	eligible := services.EligiblePositions(voter, positions)
	if len(eligible) == 0 {
		view.Status = BallotStatusNothingToVote
		return view, nil
	}

	byPosition := make(map[string][]BallotCandidate)
	for _, candidate := range candidates {
		byPosition[candidate.PositionID] = append(byPosition[candidate.PositionID], BallotCandidate{
			CandidateID: candidate.CandidateID,
			FullName:    candidate.FullName(),
			Course:      candidate.Course,
			YearLevel:   candidate.YearLevel,
			PhotoURL:    candidate.PhotoURL,
		})
	}

	view.Status = BallotStatusReady
	view.Positions = make([]BallotPosition, 0, len(eligible))
	for _, position := range eligible {
		view.Positions = append(view.Positions, BallotPosition{
			PositionID:  position.PositionID,
			Title:       position.Title,
			Cardinality: position.Cardinality,
			Candidates:  byPosition[position.PositionID],
		})
	}

	logger.Debug("ballot view resolved",
		"event", "ballot_view_resolved",
		"module", "election-operations/ballot-box",
		"layer", "application",
		"election_id", electionID,
		"status", string(view.Status),
		"positions", len(view.Positions),
	)
	return view, nil
}
