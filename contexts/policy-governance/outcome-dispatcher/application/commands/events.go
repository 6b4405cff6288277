package commands

import (
	"encoding/json"
	"time"

	"concord/contexts/policy-governance/outcome-dispatcher/ports"
)

func newOutcomeEnvelope(
	envelopeID string,
	eventType string,
	agendaItemID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Outcome events are partitioned by agenda item so each item's outcome
	// history stays ordered for consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          envelopeID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "outcome-dispatcher",
		TraceID:          envelopeID,
		SchemaVersion:    1,
		PartitionKeyPath: "agenda_item_id",
		PartitionKey:     agendaItemID,
		Data:             payload,
	}, nil
}
