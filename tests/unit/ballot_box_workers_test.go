package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"evotar/contexts/election-operations/ballot-box/adapters/memory"
	"evotar/contexts/election-operations/ballot-box/application/workers"
	eventsv1 "evotar/contracts/gen/events/v1"
)

type capturingPublisher struct {
	published []eventsv1.Envelope
	topics    []string
	failWith  error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event eventsv1.Envelope) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

func appendOutboxEvent(t *testing.T, store *memory.Store, eventType string) {
	t.Helper()
	err := store.AppendOutbox(context.Background(), eventsv1.Envelope{
		EventID:       "event-" + eventType,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		SourceService: "ballot-box",
		SchemaVersion: 1,
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	appendOutboxEvent(t, store, "ballot.cast")
	appendOutboxEvent(t, store, "receipt.issued")

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	for i, topic := range publisher.topics {
		if topic != publisher.published[i].EventType {
			t.Fatalf("expected topic to follow event type, got %s for %s", topic, publisher.published[i].EventType)
		}
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("expected empty outbox after relay, got %d pending", store.PendingOutboxCount())
	}

	// A second cycle is a no-op.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected no republish, got %d events", len(publisher.published))
	}
}

func TestOutboxRelayKeepsRowsPendingOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	appendOutboxEvent(t, store, "ballot.cast")

	publisher := &capturingPublisher{failWith: errors.New("broker unavailable")}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay failure")
	}
	if store.PendingOutboxCount() != 1 {
		t.Fatalf("failed publish must leave the row pending, got %d", store.PendingOutboxCount())
	}

	publisher.failWith = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay retry failed: %v", err)
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("expected row published on retry")
	}
}
