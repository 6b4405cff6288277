package commands

import (
	"encoding/json"
	"time"

	"concord/contexts/policy-governance/voting-session-service/ports"
)

func newVotingEnvelope(
	eventID string,
	eventType string,
	agendaItemID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Command-side events are partitioned by agenda item for stable ordering on
	// item-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "voting-session-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "agenda_item_id",
		PartitionKey:     agendaItemID,
		Data:             payload,
	}, nil
}
