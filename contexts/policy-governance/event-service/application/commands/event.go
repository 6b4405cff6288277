package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/policy-governance/event-service/application"
	"concord/contexts/policy-governance/event-service/application/queries"
	"concord/contexts/policy-governance/event-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/event-service/ports"
)

type CreateEventCommand struct {
	OwningGroupID string
	Title         string
	StartsAt      time.Time
}

type CreateAgendaItemCommand struct {
	EventID             string
	Title               string
	Type                entities.AgendaItemType
	AmendmentID         string
	PositionID          string
	ScheduledElectionID string
}

type CancelEventResult struct {
	Event       entities.Event
	Validation  queries.CancellationValidation
	Report      ReassignmentReport
	PathChanges []PathChange
}

// EventUseCase owns event lifecycle writes. Cancellation chains validation,
// best-effort agenda reassignment and amendment path recalculation, then
// records an outbox event for downstream consumers.
type EventUseCase struct {
	Events      ports.EventRepository
	Agenda      ports.AgendaRepository
	Validation  queries.ValidationUseCase
	Reassign    ReassignUseCase
	Recalculate RecalculateUseCase
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc EventUseCase) CreateEvent(ctx context.Context, cmd CreateEventCommand) (entities.Event, error) {
	logger := application.ResolveLogger(uc.Logger)
	owningGroupID := strings.TrimSpace(cmd.OwningGroupID)
	if owningGroupID == "" || cmd.StartsAt.IsZero() {
		return entities.Event{}, domainerrors.ErrInvalidEventInput
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Event{}, err
	}
	now := uc.Clock.Now().UTC()
	event := entities.Event{
		EventID:       eventID,
		OwningGroupID: owningGroupID,
		Title:         strings.TrimSpace(cmd.Title),
		StartsAt:      cmd.StartsAt.UTC(),
		Status:        entities.EventStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.Events.SaveEvent(ctx, event); err != nil {
		return entities.Event{}, err
	}

	logger.Info("event created",
		"event", "event_created",
		"module", "policy-governance/event-service",
		"layer", "application",
		"event_id", event.EventID,
		"group_id", owningGroupID,
		"starts_at", event.StartsAt,
	)
	return event, nil
}

func (uc EventUseCase) CreateAgendaItem(ctx context.Context, cmd CreateAgendaItemCommand) (entities.AgendaItem, error) {
	eventID := strings.TrimSpace(cmd.EventID)
	if eventID == "" || !entities.IsSupportedAgendaItemType(cmd.Type) {
		return entities.AgendaItem{}, domainerrors.ErrInvalidAgendaItemInput
	}
	event, err := uc.Events.GetEvent(ctx, eventID)
	if err != nil {
		return entities.AgendaItem{}, err
	}
	if event.IsCancelled() {
		return entities.AgendaItem{}, domainerrors.ErrEventAlreadyCancelled
	}

	maxOrder, err := uc.Agenda.MaxOrderForEvent(ctx, event.EventID)
	if err != nil {
		return entities.AgendaItem{}, err
	}
	itemID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AgendaItem{}, err
	}
	now := uc.Clock.Now().UTC()
	item := entities.AgendaItem{
		AgendaItemID:        itemID,
		EventID:             event.EventID,
		Title:               strings.TrimSpace(cmd.Title),
		Type:                cmd.Type,
		Status:              entities.AgendaItemStatusScheduled,
		Order:               maxOrder + 1,
		AmendmentID:         strings.TrimSpace(cmd.AmendmentID),
		PositionID:          strings.TrimSpace(cmd.PositionID),
		ScheduledElectionID: strings.TrimSpace(cmd.ScheduledElectionID),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.Agenda.SaveAgendaItem(ctx, item); err != nil {
		return entities.AgendaItem{}, err
	}
	return item, nil
}

// CancelEvent runs the full disruption recovery. Validation failure leaves
// the event and its agenda untouched.
func (uc EventUseCase) CancelEvent(ctx context.Context, eventID string, actorID string) (CancelEventResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	event, err := uc.Events.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return CancelEventResult{}, err
	}
	if event.IsCancelled() {
		return CancelEventResult{}, domainerrors.ErrEventAlreadyCancelled
	}

	validation, err := uc.Validation.ValidateEventCancellation(ctx, event.EventID)
	if err != nil {
		return CancelEventResult{}, err
	}
	if !validation.IsValid {
		logger.Warn("event cancellation blocked",
			"event", "event_cancel_blocked",
			"module", "policy-governance/event-service",
			"layer", "application",
			"event_id", event.EventID,
			"reason", validation.Reason,
		)
		return CancelEventResult{Event: event, Validation: validation}, domainerrors.ErrNoReassignmentTarget
	}

	now := uc.Clock.Now().UTC()
	cancelledAt := now
	event.Status = entities.EventStatusCancelled
	event.CancelledAt = &cancelledAt
	event.UpdatedAt = now
	if err := uc.Events.UpdateEvent(ctx, event); err != nil {
		return CancelEventResult{}, err
	}

	report, err := uc.Reassign.ReassignAgendaItems(ctx, event.EventID, validation.TargetEventID)
	if err != nil {
		return CancelEventResult{Event: event, Validation: validation}, err
	}
	changes, err := uc.Recalculate.RecalculateAmendmentPaths(ctx, event.EventID, validation.TargetEventID)
	if err != nil {
		return CancelEventResult{Event: event, Validation: validation, Report: report}, err
	}

	envelopeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CancelEventResult{Event: event, Validation: validation, Report: report, PathChanges: changes}, err
	}
	envelope, err := newEventEnvelope(envelopeID, "event.cancelled", event.EventID, now, map[string]any{
		"event_id":        event.EventID,
		"group_id":        event.OwningGroupID,
		"target_event_id": validation.TargetEventID,
		"cancelled_by":    strings.TrimSpace(actorID),
		"moved_items":     len(report.MovedItemIDs),
		"archived_items":  len(report.ArchivedItemIDs),
		"failed_items":    len(report.Failures),
	})
	if err != nil {
		return CancelEventResult{Event: event, Validation: validation, Report: report, PathChanges: changes}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		return CancelEventResult{Event: event, Validation: validation, Report: report, PathChanges: changes}, err
	}

	logger.Info("event cancelled",
		"event", "event_cancelled",
		"module", "policy-governance/event-service",
		"layer", "application",
		"event_id", event.EventID,
		"target_event_id", validation.TargetEventID,
		"moved", len(report.MovedItemIDs),
		"archived", len(report.ArchivedItemIDs),
		"failed", len(report.Failures),
		"path_changes", len(changes),
	)
	return CancelEventResult{Event: event, Validation: validation, Report: report, PathChanges: changes}, nil
}
