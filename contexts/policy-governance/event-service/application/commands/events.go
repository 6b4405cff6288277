package commands

import (
	"encoding/json"
	"time"

	"concord/contexts/policy-governance/event-service/ports"
)

func newEventEnvelope(
	envelopeID string,
	eventType string,
	subjectEventID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Lifecycle events are partitioned by the affected event so recovery
	// consumers see one event's history in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          envelopeID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "event-service",
		TraceID:          envelopeID,
		SchemaVersion:    1,
		PartitionKeyPath: "event_id",
		PartitionKey:     subjectEventID,
		Data:             payload,
	}, nil
}
