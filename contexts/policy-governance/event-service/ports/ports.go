package ports

import (
	"context"
	"time"

	"concord/contexts/policy-governance/event-service/domain/entities"
)

type EventRepository interface {
	SaveEvent(ctx context.Context, event entities.Event) error
	GetEvent(ctx context.Context, eventID string) (entities.Event, error)
	UpdateEvent(ctx context.Context, event entities.Event) error
	// ListEventsByGroup returns the group's events ordered by start date
	// ascending, cancelled ones included.
	ListEventsByGroup(ctx context.Context, groupID string) ([]entities.Event, error)
}

type AgendaRepository interface {
	SaveAgendaItem(ctx context.Context, item entities.AgendaItem) error
	GetAgendaItem(ctx context.Context, agendaItemID string) (entities.AgendaItem, error)
	UpdateAgendaItem(ctx context.Context, item entities.AgendaItem) error
	ListAgendaItemsByEvent(ctx context.Context, eventID string) ([]entities.AgendaItem, error)
	MaxOrderForEvent(ctx context.Context, eventID string) (int, error)
}

// PathSegmentRef mirrors one stored hop of an amendment route.
type PathSegmentRef struct {
	EntityType string
	EntityID   string
	GroupID    string
	Status     string
}

// AmendmentRef is the slice of amendment state disruption recovery needs:
// identity, terminality, and the stored route.
type AmendmentRef struct {
	AmendmentID string
	Terminal    bool
	PathValid   bool
	Segments    []PathSegmentRef
}

// AmendmentPathStore reads and repairs amendment routes. It is a projection
// over the amendment store scoped to path maintenance.
type AmendmentPathStore interface {
	ListAmendmentsWithEventSegment(ctx context.Context, eventID string) ([]AmendmentRef, error)
	ListNonTerminalAmendments(ctx context.Context) ([]AmendmentRef, error)
	ReplaceSegmentEvent(ctx context.Context, amendmentID string, segmentIndex int, newEventID string) error
	MarkPathInvalid(ctx context.Context, amendmentID string, reason string) error
}

type GroupDirectory interface {
	GroupExists(ctx context.Context, groupID string) (bool, error)
}

// EventEnvelope is the wire shape this module appends to its outbox.
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

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
