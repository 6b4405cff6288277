package httpadapter

import (
	"context"
	"log/slog"

	"concord/contexts/policy-governance/event-service/application/commands"
	"concord/contexts/policy-governance/event-service/application/queries"
	"concord/contexts/policy-governance/event-service/domain/entities"
	httptransport "concord/contexts/policy-governance/event-service/transport/http"
)

type Handler struct {
	Events     commands.EventUseCase
	Validation queries.ValidationUseCase
	Agenda     queries.AgendaUseCase
	Logger     *slog.Logger
}

func (h Handler) CreateEventHandler(ctx context.Context, req httptransport.CreateEventRequest) (httptransport.EventResponse, error) {
	event, err := h.Events.CreateEvent(ctx, commands.CreateEventCommand{
		OwningGroupID: req.OwningGroupID,
		Title:         req.Title,
		StartsAt:      req.StartsAt,
	})
	if err != nil {
		return httptransport.EventResponse{}, err
	}
	return eventResponse(event), nil
}

func (h Handler) CreateAgendaItemHandler(ctx context.Context, req httptransport.CreateAgendaItemRequest) (httptransport.AgendaItemResponse, error) {
	item, err := h.Events.CreateAgendaItem(ctx, commands.CreateAgendaItemCommand{
		EventID:             req.EventID,
		Title:               req.Title,
		Type:                entities.AgendaItemType(req.Type),
		AmendmentID:         req.AmendmentID,
		PositionID:          req.PositionID,
		ScheduledElectionID: req.ScheduledElectionID,
	})
	if err != nil {
		return httptransport.AgendaItemResponse{}, err
	}
	return agendaItemResponse(item), nil
}

func (h Handler) ValidateCancellationHandler(ctx context.Context, eventID string) (httptransport.CancellationValidationResponse, error) {
	validation, err := h.Validation.ValidateEventCancellation(ctx, eventID)
	if err != nil {
		return httptransport.CancellationValidationResponse{}, err
	}
	return validationResponse(validation), nil
}

func (h Handler) CancelEventHandler(ctx context.Context, eventID string, actorID string) (httptransport.CancelEventResponse, error) {
	result, err := h.Events.CancelEvent(ctx, eventID, actorID)
	if err != nil {
		return httptransport.CancelEventResponse{}, err
	}
	resp := httptransport.CancelEventResponse{
		Event:           eventResponse(result.Event),
		Validation:      validationResponse(result.Validation),
		MovedItemIDs:    result.Report.MovedItemIDs,
		ArchivedItemIDs: result.Report.ArchivedItemIDs,
		PathChanges:     len(result.PathChanges),
	}
	for _, failure := range result.Report.Failures {
		resp.Failures = append(resp.Failures, httptransport.ItemFailureResponse{
			AgendaItemID: failure.AgendaItemID,
			Reason:       failure.Reason,
		})
	}
	return resp, nil
}

func (h Handler) EventAgendaHandler(ctx context.Context, eventID string) (httptransport.EventAgendaResponse, error) {
	agenda, err := h.Agenda.EventAgenda(ctx, eventID)
	if err != nil {
		return httptransport.EventAgendaResponse{}, err
	}
	resp := httptransport.EventAgendaResponse{Event: eventResponse(agenda.Event)}
	for _, item := range agenda.Items {
		resp.Items = append(resp.Items, agendaItemResponse(item))
	}
	return resp, nil
}

func eventResponse(event entities.Event) httptransport.EventResponse {
	return httptransport.EventResponse{
		EventID:       event.EventID,
		OwningGroupID: event.OwningGroupID,
		Title:         event.Title,
		StartsAt:      event.StartsAt,
		Status:        string(event.Status),
		CancelledAt:   event.CancelledAt,
	}
}

func agendaItemResponse(item entities.AgendaItem) httptransport.AgendaItemResponse {
	return httptransport.AgendaItemResponse{
		AgendaItemID: item.AgendaItemID,
		EventID:      item.EventID,
		Title:        item.Title,
		Type:         string(item.Type),
		Status:       string(item.Status),
		Order:        item.Order,
		AmendmentID:  item.AmendmentID,
		PositionID:   item.PositionID,
	}
}

func validationResponse(validation queries.CancellationValidation) httptransport.CancellationValidationResponse {
	return httptransport.CancellationValidationResponse{
		IsValid:              validation.IsValid,
		RequiresReassignment: validation.RequiresReassignment,
		TargetEventID:        validation.TargetEventID,
		TargetEventTitle:     validation.TargetEventTitle,
		Reason:               validation.Reason,
	}
}
