package ports

import (
	"context"
	"time"

	"concord/contexts/policy-governance/amendment-service/domain/entities"
)

type AmendmentRepository interface {
	SaveAmendment(ctx context.Context, amendment entities.Amendment) error
	GetAmendment(ctx context.Context, amendmentID string) (entities.Amendment, error)
	UpdateAmendment(ctx context.Context, amendment entities.Amendment) error
}

// RouteSegment is the routing answer this module consumes from the group
// network. It mirrors that context's storage segments without importing its
// domain types.
type RouteSegment struct {
	EntityType string
	EntityID   string
	GroupID    string
}

// RouteBuilder resolves the hop list from the author's member groups to the
// target group at submission time.
type RouteBuilder interface {
	BuildRoute(ctx context.Context, originGroupIDs []string, targetGroupID string) ([]RouteSegment, error)
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
