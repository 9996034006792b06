package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	ballotbox "evotar/contexts/election-operations/ballot-box"
	"evotar/contexts/election-operations/ballot-box/domain/entities"
	ballotdomainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
	ballotports "evotar/contexts/election-operations/ballot-box/ports"
	httptransport "evotar/contexts/election-operations/ballot-box/transport/http"
	receiptservice "evotar/contexts/election-operations/receipt-service"
	receiptcommands "evotar/contexts/election-operations/receipt-service/application/commands"
	receiptentities "evotar/contexts/election-operations/receipt-service/domain/entities"
)

// receiptIssuerBridge mirrors the composition-root wiring between the two
// contexts so module tests cover the real issuance path.
type receiptIssuerBridge struct {
	issue receiptcommands.IssueReceiptUseCase
}

func (b receiptIssuerBridge) IssueReceipt(ctx context.Context, req ballotports.ReceiptRequest) (ballotports.IssuedReceipt, error) {
	selections := make([]receiptentities.SelectionLine, 0, len(req.Selections))
	for _, line := range req.Selections {
		selections = append(selections, receiptentities.SelectionLine{
			PositionID:    line.PositionID,
			PositionTitle: line.PositionTitle,
			CandidateID:   line.CandidateID,
			CandidateName: line.CandidateName,
		})
	}
	result, err := b.issue.Execute(ctx, receiptcommands.IssueReceiptCommand{
		ElectionID:    req.ElectionID,
		ElectionTitle: req.ElectionTitle,
		VotedAt:       req.VotedAt,
		Selections:    selections,
	})
	if err != nil {
		return ballotports.IssuedReceipt{}, err
	}
	return ballotports.IssuedReceipt{ReceiptID: result.ReceiptID, Document: result.Document}, nil
}

func seedBallotFixture(module ballotbox.Module) {
	now := time.Now().UTC()
	module.Store.SetElection(ballotports.ElectionProjection{
		ElectionID: "election-1",
		Title:      "Student Council 2026",
		Status:     "active",
		StartsAt:   now.Add(-time.Hour),
		EndsAt:     now.Add(time.Hour),
	})
	president, _ := entities.NewPosition("pos-president", "election-1", "President", 1)
	representative, _ := entities.NewPosition("pos-rep", "election-1", "2nd Year Representative", 2)
	module.Store.SetPosition(president)
	module.Store.SetPosition(representative)
	module.Store.SetCandidate("election-1", entities.Candidate{
		CandidateID: "cand-a", PositionID: "pos-president", FirstName: "Ana", LastName: "Reyes", Course: "BSCS", YearLevel: 3,
	})
	module.Store.SetCandidate("election-1", entities.Candidate{
		CandidateID: "cand-b", PositionID: "pos-president", FirstName: "Ben", LastName: "Cruz", Course: "BSIT", YearLevel: 4,
	})
	module.Store.SetCandidate("election-1", entities.Candidate{
		CandidateID: "cand-c", PositionID: "pos-rep", FirstName: "Carla", LastName: "Santos", Course: "BSCS", YearLevel: 2,
	})
	module.Store.SetCandidate("election-1", entities.Candidate{
		CandidateID: "cand-d", PositionID: "pos-rep", FirstName: "Dan", LastName: "Lim", Course: "BSIT", YearLevel: 2,
	})
	module.Store.SetVoter(entities.VoterProfile{VoterID: "voter-1", YearLevel: 2, Course: "BSCS"})
	module.Store.SetSession(entities.VotingSession{
		Token:      "session-1",
		VoterID:    "voter-1",
		ElectionID: "election-1",
		ExpiresAt:  now.Add(30 * time.Minute),
		CreatedAt:  now,
	})
}

func TestCastBallotHappyPathIssuesVerifiableReceipt(t *testing.T) {
	receipts := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	module := ballotbox.NewInMemoryModule(receiptIssuerBridge{issue: receipts.Handler.Issue}, nil)
	seedBallotFixture(module)

	view, err := module.Handler.GetBallotHandler(context.Background(), "voter-1", "election-1")
	if err != nil {
		t.Fatalf("get ballot failed: %v", err)
	}
	if view.Status != "ready" {
		t.Fatalf("expected ready ballot, got %s", view.Status)
	}
	if len(view.Positions) != 2 {
		t.Fatalf("expected 2 positions on ballot, got %d", len(view.Positions))
	}

	resp, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-president": {"cand-a"},
			"pos-rep":       {"cand-c", "cand-d"},
		},
	})
	if err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}
	if resp.VotesRecorded != 3 {
		t.Fatalf("expected 3 votes recorded, got %d", resp.VotesRecorded)
	}
	if !resp.ReceiptIssued || resp.ReceiptID == "" {
		t.Fatalf("expected issued receipt, got %+v", resp)
	}
	if resp.ReceiptDocument == "" {
		t.Fatalf("expected rendered receipt document")
	}

	stored, ok := receipts.Store.Receipt(resp.ReceiptID)
	if !ok {
		t.Fatalf("receipt %s not persisted", resp.ReceiptID)
	}
	if !stored.Verify(stored.VerificationToken) {
		t.Fatalf("stored receipt does not verify against its own token")
	}
	if len(stored.Selections) != 3 {
		t.Fatalf("expected 3 receipt lines, got %d", len(stored.Selections))
	}

	// Vote rows carry no voter identity.
	for _, vote := range module.Store.VotesForSession("session-1") {
		if vote.ElectionID != "election-1" {
			t.Fatalf("unexpected vote row: %+v", vote)
		}
	}

	// The session is consumed; a replay is rejected without another store write.
	calls := module.Store.CastCalls()
	_, err = module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-president": {"cand-b"},
			"pos-rep":       {"cand-c"},
		},
	})
	if !errors.Is(err, ballotdomainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted on replay, got %v", err)
	}
	if module.Store.CastCalls() != calls {
		t.Fatalf("replay must be rejected before the store call")
	}
}

func TestCastBallotRefusesIncompleteSelection(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil, nil)
	seedBallotFixture(module)

	_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-president": {"cand-a"},
		},
	})
	if !errors.Is(err, ballotdomainerrors.ErrIncompleteBallot) {
		t.Fatalf("expected incomplete ballot, got %v", err)
	}
	if module.Store.CastCalls() != 0 {
		t.Fatalf("incomplete ballot must never reach the store")
	}
}

func TestCastBallotRefusesOverCardinalityAndForeignSelections(t *testing.T) {
	module := ballotbox.NewInMemoryModule(nil, nil)
	seedBallotFixture(module)

	_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-president": {"cand-a", "cand-b"},
			"pos-rep":       {"cand-c"},
		},
	})
	if !errors.Is(err, ballotdomainerrors.ErrSelectionLimitExceeded) {
		t.Fatalf("expected selection limit exceeded, got %v", err)
	}

	_, err = module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-president": {"cand-c"},
			"pos-rep":       {"cand-c", "cand-d"},
		},
	})
	if !errors.Is(err, ballotdomainerrors.ErrCandidateNotOnBallot) {
		t.Fatalf("expected candidate not on ballot, got %v", err)
	}

	_, err = module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-ghost": {"cand-a"},
			"pos-rep":   {"cand-c"},
		},
	})
	if !errors.Is(err, ballotdomainerrors.ErrPositionNotOnBallot) {
		t.Fatalf("expected position not on ballot, got %v", err)
	}
	if module.Store.CastCalls() != 0 {
		t.Fatalf("structural violations must never reach the store")
	}
}

func TestCastBallotReceiptFailureDegradesNotFails(t *testing.T) {
	receipts := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	module := ballotbox.NewInMemoryModule(receiptIssuerBridge{issue: receipts.Handler.Issue}, nil)
	seedBallotFixture(module)
	receipts.Store.FailNextSave(errors.New("disk full"))

	resp, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", httptransport.CastBallotRequest{
		Selections: map[string][]string{
			"pos-president": {"cand-a"},
			"pos-rep":       {"cand-c"},
		},
	})
	if err != nil {
		t.Fatalf("cast must succeed despite receipt failure: %v", err)
	}
	if resp.ReceiptIssued {
		t.Fatalf("expected degraded receipt outcome")
	}
	if resp.Warning == "" {
		t.Fatalf("expected receipt-unavailable warning")
	}
	session, _ := module.Store.Session("session-1")
	if !session.HasVoted {
		t.Fatalf("vote must stay recorded after receipt failure")
	}
}
