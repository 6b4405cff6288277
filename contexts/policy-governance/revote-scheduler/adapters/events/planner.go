package eventsadapter

import (
	"context"
	"strings"
	"time"

	eventcommands "concord/contexts/policy-governance/event-service/application/commands"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
	eventports "concord/contexts/policy-governance/event-service/ports"
	"concord/contexts/policy-governance/revote-scheduler/ports"
)

// EventServicePlanner adapts the event service to the scheduler's planning
// port.
type EventServicePlanner struct {
	Events     eventcommands.EventUseCase
	Repository eventports.EventRepository
}

func (p EventServicePlanner) ListGroupEvents(ctx context.Context, groupID string) ([]ports.EventRef, error) {
	events, err := p.Repository.ListEventsByGroup(ctx, strings.TrimSpace(groupID))
	if err != nil {
		return nil, err
	}
	refs := make([]ports.EventRef, 0, len(events))
	for _, event := range events {
		refs = append(refs, ports.EventRef{
			EventID:   event.EventID,
			StartsAt:  event.StartsAt,
			Cancelled: event.IsCancelled(),
		})
	}
	return refs, nil
}

func (p EventServicePlanner) CreateEvent(ctx context.Context, groupID string, title string, startsAt time.Time) (ports.EventRef, error) {
	event, err := p.Events.CreateEvent(ctx, eventcommands.CreateEventCommand{
		OwningGroupID: groupID,
		Title:         title,
		StartsAt:      startsAt,
	})
	if err != nil {
		return ports.EventRef{}, err
	}
	return ports.EventRef{EventID: event.EventID, StartsAt: event.StartsAt}, nil
}

func (p EventServicePlanner) CreateElectionAgendaItem(ctx context.Context, eventID string, title string, positionID string, scheduledElectionID string) (string, error) {
	item, err := p.Events.CreateAgendaItem(ctx, eventcommands.CreateAgendaItemCommand{
		EventID:             eventID,
		Title:               title,
		Type:                evententities.AgendaItemTypeElection,
		PositionID:          positionID,
		ScheduledElectionID: scheduledElectionID,
	})
	if err != nil {
		return "", err
	}
	return item.AgendaItemID, nil
}
