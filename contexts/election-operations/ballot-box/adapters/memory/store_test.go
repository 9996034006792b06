package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evotar/contexts/election-operations/ballot-box/domain/entities"
	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
)

func TestCastBallotRacingSubmissionsRecordExactlyOne(t *testing.T) {
	store := NewStore()
	store.SetSession(entities.VotingSession{
		Token:      "session-1",
		VoterID:    "voter-1",
		ElectionID: "election-1",
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
	})
	votes := []entities.VoteRecord{
		{ElectionID: "election-1", PositionID: "pos-1", CandidateID: "cand-1"},
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.CastBallot(context.Background(), "session-1", votes, time.Now().UTC())
		}()
	}
	wg.Wait()
	close(results)

	succeeded, alreadyVoted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
			alreadyVoted++
		default:
			t.Fatalf("unexpected cast error: %v", err)
		}
	}
	if succeeded != 1 || alreadyVoted != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d already-voted", succeeded, alreadyVoted)
	}
	if got := len(store.VotesForSession("session-1")); got != 1 {
		t.Fatalf("expected 1 recorded vote, got %d", got)
	}
}

func TestCastBallotRejectsExpiredSessionWithoutRecording(t *testing.T) {
	store := NewStore()
	store.SetSession(entities.VotingSession{
		Token:      "session-1",
		VoterID:    "voter-1",
		ElectionID: "election-1",
		ExpiresAt:  time.Now().UTC().Add(-time.Minute),
	})

	err := store.CastBallot(context.Background(), "session-1", []entities.VoteRecord{
		{ElectionID: "election-1", PositionID: "pos-1", CandidateID: "cand-1"},
	}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if got := len(store.VotesForSession("session-1")); got != 0 {
		t.Fatalf("expected no recorded votes, got %d", got)
	}
	session, _ := store.Session("session-1")
	if session.HasVoted {
		t.Fatalf("expired cast must not consume the session")
	}
}

func TestCastBallotFailureInjectionLeavesStateUntouched(t *testing.T) {
	store := NewStore()
	store.SetSession(entities.VotingSession{
		Token:      "session-1",
		VoterID:    "voter-1",
		ElectionID: "election-1",
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
	})
	injected := errors.New("connection reset")
	store.FailNextCast(injected)

	err := store.CastBallot(context.Background(), "session-1", []entities.VoteRecord{
		{ElectionID: "election-1", PositionID: "pos-1", CandidateID: "cand-1"},
	}, time.Now().UTC())
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	session, _ := store.Session("session-1")
	if session.HasVoted {
		t.Fatalf("failed cast must not consume the session")
	}

	// The same call succeeds once the fault clears.
	if err := store.CastBallot(context.Background(), "session-1", []entities.VoteRecord{
		{ElectionID: "election-1", PositionID: "pos-1", CandidateID: "cand-1"},
	}, time.Now().UTC()); err != nil {
		t.Fatalf("retry after injected failure failed: %v", err)
	}
}
