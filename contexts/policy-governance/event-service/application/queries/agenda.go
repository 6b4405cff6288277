package queries

import (
	"context"
	"strings"

	"concord/contexts/policy-governance/event-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/event-service/ports"
)

type EventAgenda struct {
	Event entities.Event
	Items []entities.AgendaItem
}

type AgendaUseCase struct {
	Events ports.EventRepository
	Agenda ports.AgendaRepository
}

func (uc AgendaUseCase) EventAgenda(ctx context.Context, eventID string) (EventAgenda, error) {
	id := strings.TrimSpace(eventID)
	if id == "" {
		return EventAgenda{}, domainerrors.ErrInvalidEventInput
	}
	event, err := uc.Events.GetEvent(ctx, id)
	if err != nil {
		return EventAgenda{}, err
	}
	items, err := uc.Agenda.ListAgendaItemsByEvent(ctx, event.EventID)
	if err != nil {
		return EventAgenda{}, err
	}
	return EventAgenda{Event: event, Items: items}, nil
}
