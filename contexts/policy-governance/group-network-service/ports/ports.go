package ports

import (
	"context"
	"time"

	"concord/contexts/policy-governance/group-network-service/domain/entities"
)

type GroupRepository interface {
	SaveGroup(ctx context.Context, group entities.Group) error
	GetGroup(ctx context.Context, groupID string) (entities.Group, error)
	ListRelationships(ctx context.Context) ([]entities.GroupRelationship, error)
	GetRelationshipByEdge(ctx context.Context, parentGroupID string, childGroupID string) (entities.GroupRelationship, bool, error)
	SaveRelationship(ctx context.Context, relationship entities.GroupRelationship) error
	DeleteRelationship(ctx context.Context, relationshipID string) error
}

// EventRef is the projection of an upcoming event used to anchor route
// segments to schedulable targets.
type EventRef struct {
	EventID  string
	GroupID  string
	StartsAt time.Time
}

type EventDirectory interface {
	NextEventForGroup(ctx context.Context, groupID string, after time.Time) (EventRef, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
