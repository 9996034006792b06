package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "evotar/contexts/election-operations/ballot-box/application"
	"evotar/contexts/election-operations/ballot-box/domain/entities"
	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
	"evotar/contexts/election-operations/ballot-box/domain/services"
	"evotar/contexts/election-operations/ballot-box/ports"
)

// CastBallotCommand is the write-model input for the one-shot ballot
// submission. Selections maps position id to the chosen candidate ids.
type CastBallotCommand struct {
	VoterID    string
	ElectionID string
	Selections map[string][]string
}

// CastBallotResult reports the recorded cast plus the receipt outcome. A cast
// can succeed while the receipt does not; ReceiptIssued distinguishes the two
// so the transport layer can surface "vote recorded, receipt unavailable".
type CastBallotResult struct {
	VotesRecorded   int
	VotedAt         time.Time
	ReceiptIssued   bool
	ReceiptID       string
	ReceiptDocument []byte
}

// CastBallotUseCase orchestrates the submission path: session guard, election
// window re-check, eligibility and cardinality enforcement (all local, before
// any store write), exactly one atomic cast, then one receipt issuance.
type CastBallotUseCase struct {
	Sessions  ports.SessionRepository
	Catalog   ports.CatalogRepository
	BallotBox ports.BallotBox
	Receipts  ports.ReceiptIssuer
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CastBallot performs the complete submission for one confirmed ballot. It
// issues exactly one atomic store call per invocation; every structural
// violation (unknown position, wrong candidate, over-cardinality, missing
// selection) is rejected before that call is made.
func (uc CastBallotUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	logger.Info("ballot cast processing started",
		"event", "ballot_cast_started",
		"module", "election-operations/ballot-box",
		"layer", "application",
		"election_id", electionID,
	)
	if voterID == "" || electionID == "" || len(cmd.Selections) == 0 {
		logger.Warn("ballot cast validation failed",
			"event", "ballot_cast_validation_failed",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"election_id", electionID,
		)
		return CastBallotResult{}, domainerrors.ErrInvalidBallotInput
	}

	now := uc.now()

	election, err := uc.Catalog.GetElection(ctx, electionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if now.Before(election.StartsAt) {
		return CastBallotResult{}, domainerrors.ErrVotingNotStarted
	}
	if now.After(election.EndsAt) {
		return CastBallotResult{}, domainerrors.ErrVotingEnded
	}

	// Second guard invocation: the first ran when the ballot view was built.
	// Re-validating here closes the race between rendering and submitting.
	session, found, err := uc.Sessions.GetSession(ctx, voterID, electionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if !found {
		return CastBallotResult{}, domainerrors.ErrSessionNotFound
	}
	if err := session.Validate(now); err != nil {
		logger.Warn("ballot cast session guard rejected",
			"event", "ballot_cast_session_rejected",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"election_id", electionID,
			"reason", err.Error(),
		)
		return CastBallotResult{}, err
	}

	voter, err := uc.Catalog.GetVoter(ctx, voterID)
	if err != nil {
		return CastBallotResult{}, err
	}
	positions, err := uc.Catalog.ListPositions(ctx, electionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	candidates, err := uc.Catalog.ListCandidates(ctx, electionID)
	if err != nil {
		return CastBallotResult{}, err
	}

	eligible := services.EligiblePositions(voter, positions)
	if len(eligible) == 0 {
		return CastBallotResult{}, domainerrors.ErrEmptyBallot
	}

	draft, err := buildDraft(eligible, candidates, cmd.Selections)
	if err != nil {
		logger.Warn("ballot cast selection rejected",
			"event", "ballot_cast_selection_rejected",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"election_id", electionID,
			"reason", err.Error(),
		)
		return CastBallotResult{}, err
	}
	if !draft.Complete() {
		logger.Warn("ballot cast refused as incomplete",
			"event", "ballot_cast_incomplete",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"election_id", electionID,
			"missing_positions", len(draft.MissingPositions()),
		)
		return CastBallotResult{}, domainerrors.ErrIncompleteBallot
	}

	votes := draft.Flatten(electionID)
	if err := uc.BallotBox.CastBallot(ctx, session.Token, votes, now); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) ||
			errors.Is(err, domainerrors.ErrSessionExpired) ||
			errors.Is(err, domainerrors.ErrSessionNotFound) {
			return CastBallotResult{}, err
		}
		logger.Error("ballot cast store call failed",
			"event", "ballot_cast_store_failed",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
		return CastBallotResult{}, domainerrors.ErrBallotSubmissionFailed
	}

	logger.Info("ballot cast recorded",
		"event", "ballot_cast_recorded",
		"module", "election-operations/ballot-box",
		"layer", "application",
		"election_id", electionID,
		"votes_recorded", len(votes),
	)
	uc.appendBallotEvent(ctx, "ballot.cast", electionID, now, map[string]any{
		"election_id": electionID,
		"votes_count": len(votes),
		"occurred_at": now.Format(time.RFC3339),
	})

	result := CastBallotResult{
		VotesRecorded: len(votes),
		VotedAt:       now,
	}
	issued, ok := uc.issueReceipt(ctx, election, eligible, candidates, draft, now)
	if ok {
		result.ReceiptIssued = true
		result.ReceiptID = issued.ReceiptID
		result.ReceiptDocument = issued.Document
		uc.appendBallotEvent(ctx, "receipt.issued", electionID, now, map[string]any{
			"election_id": electionID,
			"receipt_id":  issued.ReceiptID,
			"occurred_at": now.Format(time.RFC3339),
		})
	}
	return result, nil
}

// buildDraft replays the submitted selections through the draft's toggle
// semantics and verifies the final state matches what was requested, which
// rejects duplicates and over-cardinality submissions from non-conforming
// clients.
func buildDraft(
	eligible []entities.Position,
	candidates []entities.Candidate,
	selections map[string][]string,
) (*services.BallotDraft, error) {
	byID := make(map[string]entities.Position, len(eligible))
	for _, position := range eligible {
		byID[position.PositionID] = position
	}

	draft := services.NewBallotDraft(eligible, candidates)
	for positionID, candidateIDs := range selections {
		position, ok := byID[strings.TrimSpace(positionID)]
		if !ok {
			return nil, domainerrors.ErrPositionNotOnBallot
		}
		if len(candidateIDs) > position.Cardinality {
			return nil, domainerrors.ErrSelectionLimitExceeded
		}
		seen := make(map[string]bool, len(candidateIDs))
		for _, candidateID := range candidateIDs {
			candidateID = strings.TrimSpace(candidateID)
			if candidateID == "" || seen[candidateID] {
				return nil, domainerrors.ErrInvalidBallotInput
			}
			seen[candidateID] = true
			if err := draft.Toggle(position.PositionID, candidateID); err != nil {
				return nil, err
			}
		}
	}
	return draft, nil
}

// issueReceipt runs the receipt forge once after a recorded cast. Failures are
// reported as a degraded outcome, never as a cast failure, and never trigger a
// re-submission of the vote.
func (uc CastBallotUseCase) issueReceipt(
	ctx context.Context,
	election ports.ElectionProjection,
	eligible []entities.Position,
	candidates []entities.Candidate,
	draft *services.BallotDraft,
	votedAt time.Time,
) (ports.IssuedReceipt, bool) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Receipts == nil {
		return ports.IssuedReceipt{}, false
	}

	names := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		names[candidate.CandidateID] = candidate.FullName()
	}

	lines := make([]ports.ReceiptSelection, 0, len(eligible))
	for _, position := range eligible {
		for _, candidateID := range draft.Selected(position.PositionID) {
			lines = append(lines, ports.ReceiptSelection{
				PositionID:    position.PositionID,
				PositionTitle: position.Title,
				CandidateID:   candidateID,
				CandidateName: names[candidateID],
			})
		}
	}

	issued, err := uc.Receipts.IssueReceipt(ctx, ports.ReceiptRequest{
		ElectionID:    election.ElectionID,
		ElectionTitle: election.Title,
		VotedAt:       votedAt,
		Selections:    lines,
	})
	if err != nil {
		logger.Warn("receipt issuance failed after recorded cast",
			"event", "ballot_receipt_unavailable",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
		return ports.IssuedReceipt{}, false
	}
	return issued, true
}

// appendBallotEvent is best-effort: the cast is already durable, so outbox
// append failures are logged and the result is still returned as recorded.
func (uc CastBallotUseCase) appendBallotEvent(
	ctx context.Context,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Outbox == nil {
		return
	}
	err := func() error {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := newBallotEnvelope(eventID, eventType, electionID, occurredAt, data)
		if err != nil {
			return err
		}
		return uc.Outbox.AppendOutbox(ctx, envelope)
	}()
	if err != nil {
		logger.Warn("ballot outbox append failed",
			"event", "ballot_outbox_append_failed",
			"module", "election-operations/ballot-box",
			"layer", "application",
			"event_type", eventType,
			"election_id", electionID,
			"error", err.Error(),
		)
	}
}

func (uc CastBallotUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
