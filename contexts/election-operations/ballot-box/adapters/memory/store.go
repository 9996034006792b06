package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"evotar/contexts/election-operations/ballot-box/domain/entities"
	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
	"evotar/contexts/election-operations/ballot-box/ports"
	eventsv1 "evotar/contracts/gen/events/v1"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory implementation of every ballot-box port. It honors
// the single-writer-wins cast contract under its mutex, which makes it the
// fake used to exercise racing submissions and injected store failures.
type Store struct {
	mu sync.Mutex

	elections  map[string]ports.ElectionProjection
	positions  map[string][]entities.Position
	candidates map[string][]entities.Candidate
	voters     map[string]entities.VoterProfile
	sessions   map[string]entities.VotingSession
	votes      map[string][]entities.VoteRecord
	outbox     map[string]outboxRecord

	castCalls    int
	sessionReads int
	failNextCast error
}

func NewStore() *Store {
	return &Store{
		elections:  make(map[string]ports.ElectionProjection),
		positions:  make(map[string][]entities.Position),
		candidates: make(map[string][]entities.Candidate),
		voters:     make(map[string]entities.VoterProfile),
		sessions:   make(map[string]entities.VotingSession),
		votes:      make(map[string][]entities.VoteRecord),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) SetElection(election ports.ElectionProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
}

func (s *Store) SetPosition(position entities.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID := strings.TrimSpace(position.ElectionID)
	s.positions[electionID] = append(s.positions[electionID], position)
}

func (s *Store) SetCandidate(electionID string, candidate entities.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID = strings.TrimSpace(electionID)
	s.candidates[electionID] = append(s.candidates[electionID], candidate)
}

func (s *Store) SetVoter(voter entities.VoterProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(voter.VoterID)] = voter
}

func (s *Store) SetSession(session entities.VotingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[strings.TrimSpace(session.Token)] = session
}

// FailNextCast makes the next CastBallot call fail with err before any state
// change, simulating a transport failure between client and store.
func (s *Store) FailNextCast(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextCast = err
}

func (s *Store) CastCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.castCalls
}

func (s *Store) SessionReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionReads
}

func (s *Store) Session(token string) (entities.VotingSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[strings.TrimSpace(token)]
	return session, ok
}

func (s *Store) VotesForSession(token string) []entities.VoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.VoteRecord(nil), s.votes[strings.TrimSpace(token)]...)
}

func (s *Store) GetSession(_ context.Context, voterID string, electionID string) (entities.VotingSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionReads++
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)
	for _, session := range s.sessions {
		if session.VoterID == voterID && session.ElectionID == electionID {
			return session, true, nil
		}
	}
	return entities.VotingSession{}, false, nil
}

func (s *Store) CastBallot(_ context.Context, sessionToken string, votes []entities.VoteRecord, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.castCalls++

	if err := s.failNextCast; err != nil {
		s.failNextCast = nil
		return err
	}

	session, ok := s.sessions[strings.TrimSpace(sessionToken)]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	if session.HasVoted {
		return domainerrors.ErrAlreadyVoted
	}
	if now.After(session.ExpiresAt) {
		return domainerrors.ErrSessionExpired
	}

	session.HasVoted = true
	s.sessions[session.Token] = session
	s.votes[session.Token] = append([]entities.VoteRecord(nil), votes...)
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (ports.ElectionProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return ports.ElectionProjection{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) ListPositions(_ context.Context, electionID string) ([]entities.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := append([]entities.Position(nil), s.positions[strings.TrimSpace(electionID)]...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *Store) ListCandidates(_ context.Context, electionID string) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Candidate(nil), s.candidates[strings.TrimSpace(electionID)]...), nil
}

func (s *Store) GetVoter(_ context.Context, voterID string) (entities.VoterProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[strings.TrimSpace(voterID)]
	if !ok {
		return entities.VoterProfile{}, domainerrors.ErrVoterNotFound
	}
	return voter, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope eventsv1.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := uuid.NewString()
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		items = append(items, record.message)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].OutboxID < items[j].OutboxID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

// PendingOutboxCount is a test convenience over the outbox state.
func (s *Store) PendingOutboxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, record := range s.outbox {
		if !record.published {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
