package ports

import (
	"context"
	"time"

	"concord/contexts/policy-governance/voting-session-service/domain/entities"
)

type SessionRepository interface {
	SaveSession(ctx context.Context, session entities.VotingSession) error
	GetSession(ctx context.Context, sessionID string) (entities.VotingSession, error)
}

type VoteRepository interface {
	SaveVote(ctx context.Context, vote entities.Vote) error
	GetVoteByVoter(ctx context.Context, sessionID string, voterID string) (entities.Vote, bool, error)
	ListVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error)
	SaveBallot(ctx context.Context, ballot entities.Ballot) error
	GetBallotByVoter(ctx context.Context, sessionID string, voterID string) (entities.Ballot, bool, error)
	ListBallotsBySession(ctx context.Context, sessionID string) ([]entities.Ballot, error)
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
