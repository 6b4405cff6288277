package commands

import (
	"context"
	"log/slog"
	"strings"

	application "concord/contexts/policy-governance/event-service/application"
	"concord/contexts/policy-governance/event-service/domain/entities"
	"concord/contexts/policy-governance/event-service/ports"
)

// ItemFailure is one agenda item the batch could not process.
type ItemFailure struct {
	AgendaItemID string
	Reason       string
}

// ReassignmentReport aggregates per-item outcomes of one recovery batch.
// The batch never aborts on a single failure.
type ReassignmentReport struct {
	MovedItemIDs    []string
	ArchivedItemIDs []string
	Failures        []ItemFailure
}

type ReassignUseCase struct {
	Agenda ports.AgendaRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

// ReassignAgendaItems moves every reassignable item from the cancelled event
// to the target event, appended after the target's current maximum order and
// reset to scheduled. All other item types are archived in place. Failures
// are collected per item; the loop always continues.
func (uc ReassignUseCase) ReassignAgendaItems(ctx context.Context, cancelledEventID string, targetEventID string) (ReassignmentReport, error) {
	logger := application.ResolveLogger(uc.Logger)
	cancelledEventID = strings.TrimSpace(cancelledEventID)
	targetEventID = strings.TrimSpace(targetEventID)

	items, err := uc.Agenda.ListAgendaItemsByEvent(ctx, cancelledEventID)
	if err != nil {
		return ReassignmentReport{}, err
	}

	now := uc.Clock.Now().UTC()
	report := ReassignmentReport{}
	nextOrder := 0
	if targetEventID != "" {
		maxOrder, err := uc.Agenda.MaxOrderForEvent(ctx, targetEventID)
		if err != nil {
			return ReassignmentReport{}, err
		}
		nextOrder = maxOrder + 1
	}

	for _, item := range items {
		if item.Type.RequiresReassignment() {
			if targetEventID == "" {
				// Reassignable item with nowhere to go. Leave it findable
				// instead of burying it in the archive.
				orphaned := item
				orphaned.Status = entities.AgendaItemStatusOrphaned
				orphaned.UpdatedAt = now
				if err := uc.Agenda.UpdateAgendaItem(ctx, orphaned); err != nil {
					report.Failures = append(report.Failures, ItemFailure{AgendaItemID: item.AgendaItemID, Reason: err.Error()})
				}
				continue
			}
			moved := item
			moved.EventID = targetEventID
			moved.Status = entities.AgendaItemStatusScheduled
			moved.Order = nextOrder
			moved.ActivatedAt = nil
			moved.CompletedAt = nil
			moved.UpdatedAt = now
			if err := uc.Agenda.UpdateAgendaItem(ctx, moved); err != nil {
				report.Failures = append(report.Failures, ItemFailure{AgendaItemID: item.AgendaItemID, Reason: err.Error()})
				continue
			}
			nextOrder++
			report.MovedItemIDs = append(report.MovedItemIDs, item.AgendaItemID)
			continue
		}

		archived := item
		archived.Status = entities.AgendaItemStatusArchived
		archivedAt := now
		archived.ArchivedAt = &archivedAt
		archived.UpdatedAt = now
		if err := uc.Agenda.UpdateAgendaItem(ctx, archived); err != nil {
			report.Failures = append(report.Failures, ItemFailure{AgendaItemID: item.AgendaItemID, Reason: err.Error()})
			continue
		}
		report.ArchivedItemIDs = append(report.ArchivedItemIDs, item.AgendaItemID)
	}

	logger.Info("agenda reassignment completed",
		"event", "event_agenda_reassigned",
		"module", "policy-governance/event-service",
		"layer", "application",
		"cancelled_event_id", cancelledEventID,
		"target_event_id", targetEventID,
		"moved", len(report.MovedItemIDs),
		"archived", len(report.ArchivedItemIDs),
		"failed", len(report.Failures),
	)
	return report, nil
}
