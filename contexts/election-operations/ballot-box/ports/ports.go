package ports

import (
	"context"
	"time"

	"evotar/contexts/election-operations/ballot-box/domain/entities"
	eventsv1 "evotar/contracts/gen/events/v1"
)

// ElectionProjection is the read model of an election's voting window consumed
// from the surrounding election catalog.
type ElectionProjection struct {
	ElectionID string
	Title      string
	Status     string
	StartsAt   time.Time
	EndsAt     time.Time
}

type SessionRepository interface {
	// GetSession is the read-only validate_session lookup by voter and
	// election. It never mutates session state.
	GetSession(ctx context.Context, voterID string, electionID string) (entities.VotingSession, bool, error)
}

// BallotBox is the atomic cast-if-not-already-cast contract the core depends
// on from its backing store. CastBallot re-checks the session, records every
// triple, and marks the session voted in one indivisible unit; no partial
// recording is observable even under failure. For concurrent or retried calls
// on one token, exactly one succeeds and the rest observe already-voted.
type BallotBox interface {
	CastBallot(ctx context.Context, sessionToken string, votes []entities.VoteRecord, now time.Time) error
}

type CatalogRepository interface {
	GetElection(ctx context.Context, electionID string) (ElectionProjection, error)
	ListPositions(ctx context.Context, electionID string) ([]entities.Position, error)
	ListCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error)
	GetVoter(ctx context.Context, voterID string) (entities.VoterProfile, error)
}

type ReceiptSelection struct {
	PositionID    string
	PositionTitle string
	CandidateID   string
	CandidateName string
}

/// ReceiptRequest deliberately carries no voter identity: the issued receipt
// must not be linkable back to who cast the ballot.
type ReceiptRequest struct {
	ElectionID    string
	ElectionTitle string
	VotedAt       time.Time
	Selections    []ReceiptSelection
}

type IssuedReceipt struct {
	ReceiptID string
	Document  []byte
}

type ReceiptIssuer interface {
	IssueReceipt(ctx context.Context, req ReceiptRequest) (IssuedReceipt, error)
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event eventsv1.Envelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event eventsv1.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
