// Package events holds the canonical event envelope carried on the bus.
// Every context marshals its outbox rows into this shape; consumers decode
// the Data payload against the event_type they subscribed to.
package events

import "time"

type Envelope struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	OccurredAt       time.Time `json:"occurred_at"`
	SourceService    string    `json:"source_service"`
	TraceID          string    `json:"trace_id"`
	SchemaVersion    int       `json:"schema_version"`
	PartitionKeyPath string    `json:"partition_key_path"`
	PartitionKey     string    `json:"partition_key"`
	Data             []byte    `json:"data"`
}

// Topics published inside the policy-governance context.
const (
	TopicSessionClosed      = "voting.session_closed"
	TopicEventCancelled     = "event.cancelled"
	TopicAmendmentForwarded = "notification.amendment_forwarded"
)
