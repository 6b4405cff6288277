package ports

import (
	"context"
	"time"

	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
)

type PositionRepository interface {
	SavePosition(ctx context.Context, position entities.Position) error
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	UpdatePosition(ctx context.Context, position entities.Position) error
}

type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.ScheduledElection) error
	GetElection(ctx context.Context, scheduledElectionID string) (entities.ScheduledElection, error)
	UpdateElection(ctx context.Context, election entities.ScheduledElection) error
}

// EventRef is the slice of event state scheduling needs.
type EventRef struct {
	EventID   string
	StartsAt  time.Time
	Cancelled bool
}

// EventPlanner is the scheduler's view of the event service: enumerate a
// group's events, create one, and attach an election agenda item.
type EventPlanner interface {
	ListGroupEvents(ctx context.Context, groupID string) ([]EventRef, error)
	CreateEvent(ctx context.Context, groupID string, title string, startsAt time.Time) (EventRef, error)
	CreateElectionAgendaItem(ctx context.Context, eventID string, title string, positionID string, scheduledElectionID string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
