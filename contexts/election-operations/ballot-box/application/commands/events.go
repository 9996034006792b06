package commands

import (
	"encoding/json"
	"time"

	eventsv1 "evotar/contracts/gen/events/v1"
)

func newBallotEnvelope(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (eventsv1.Envelope, error) {
	// Cast-side events are partitioned by election for stable ordering on
	// election-scoped consumers. Payloads never carry voter identity.
	payload, err := json.Marshal(data)
	if err != nil {
		return eventsv1.Envelope{}, err
	}
	return eventsv1.Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "ballot-box",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             payload,
	}, nil
}
