package ports

import (
	"context"
	"time"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
)

// AgendaRepository is the dispatcher's view of the event agenda. The event
// service's adapters satisfy it directly.
type AgendaRepository interface {
	SaveAgendaItem(ctx context.Context, item evententities.AgendaItem) error
	GetAgendaItem(ctx context.Context, agendaItemID string) (evententities.AgendaItem, error)
	UpdateAgendaItem(ctx context.Context, item evententities.AgendaItem) error
	MaxOrderForEvent(ctx context.Context, eventID string) (int, error)
}

// AmendmentRepository is the dispatcher's view of amendments. The amendment
// service's adapters satisfy it directly.
type AmendmentRepository interface {
	GetAmendment(ctx context.Context, amendmentID string) (amendmententities.Amendment, error)
	UpdateAmendment(ctx context.Context, amendment amendmententities.Amendment) error
}

// EventEnvelope is the wire shape this module appends to its outbox and
// consumes from the bus.
type EventEnvelope struct {
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

type OutboxRecord struct {
	OutboxID    string
	EventType   string
	Payload     []byte
	PublishedAt *time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

type OutboxRepository interface {
	OutboxWriter
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	EntityID    string
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
