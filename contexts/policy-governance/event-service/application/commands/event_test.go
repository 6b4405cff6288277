package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	eventmodule "concord/contexts/policy-governance/event-service"
	"concord/contexts/policy-governance/event-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/event-service/ports"
)

var testNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func recoveryModule(t *testing.T) eventmodule.Module {
	t.Helper()
	events := []entities.Event{
		{EventID: "event-cancelled", OwningGroupID: "regional", Title: "April assembly", StartsAt: testNow.Add(72 * time.Hour), Status: entities.EventStatusActive},
		{EventID: "event-target", OwningGroupID: "regional", Title: "May assembly", StartsAt: testNow.Add(30 * 24 * time.Hour), Status: entities.EventStatusActive},
		{EventID: "event-earlier", OwningGroupID: "regional", Title: "March assembly", StartsAt: testNow.Add(-72 * time.Hour), Status: entities.EventStatusActive},
	}
	agenda := []entities.AgendaItem{
		{AgendaItemID: "item-amendment", EventID: "event-cancelled", Type: entities.AgendaItemTypeAmendment, Status: entities.AgendaItemStatusActive, Order: 1, AmendmentID: "amendment-1"},
		{AgendaItemID: "item-election", EventID: "event-cancelled", Type: entities.AgendaItemTypeElection, Status: entities.AgendaItemStatusScheduled, Order: 2},
		{AgendaItemID: "item-support", EventID: "event-cancelled", Type: entities.AgendaItemTypeSupportConfirmation, Status: entities.AgendaItemStatusScheduled, Order: 3},
		{AgendaItemID: "item-other", EventID: "event-cancelled", Type: entities.AgendaItemTypeOther, Status: entities.AgendaItemStatusScheduled, Order: 4},
		{AgendaItemID: "item-existing", EventID: "event-target", Type: entities.AgendaItemTypeOther, Status: entities.AgendaItemStatusScheduled, Order: 5},
	}
	module := eventmodule.NewInMemoryModule(events, agenda, nil)
	module.Store.SetNow(testNow)
	return module
}

func TestCancelEventReassignsAndArchives(t *testing.T) {
	module := recoveryModule(t)
	module.Store.SetAmendmentPath(ports.AmendmentRef{
		AmendmentID: "amendment-1",
		PathValid:   true,
		Segments: []ports.PathSegmentRef{
			{EntityType: "group", EntityID: "local", GroupID: "local"},
			{EntityType: "event", EntityID: "event-cancelled", GroupID: "regional"},
		},
	})

	result, err := module.Events.CancelEvent(context.Background(), "event-cancelled", "admin-1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !result.Event.IsCancelled() || result.Event.CancelledAt == nil {
		t.Fatalf("event not marked cancelled: %+v", result.Event)
	}
	if result.Validation.TargetEventID != "event-target" {
		t.Fatalf("expected event-target as substitute, got %q", result.Validation.TargetEventID)
	}
	if len(result.Report.MovedItemIDs) != 3 || len(result.Report.ArchivedItemIDs) != 1 {
		t.Fatalf("expected 3 moved and 1 archived, got %+v", result.Report)
	}

	// Moved items land after the target's current max order, reset to scheduled.
	lastOrder := 5
	for _, id := range []string{"item-amendment", "item-election", "item-support"} {
		item, err := module.Store.GetAgendaItem(context.Background(), id)
		if err != nil {
			t.Fatalf("load %s failed: %v", id, err)
		}
		if item.EventID != "event-target" {
			t.Fatalf("%s not moved: %+v", id, item)
		}
		if item.Status != entities.AgendaItemStatusScheduled {
			t.Fatalf("%s must reset to scheduled, got %s", id, item.Status)
		}
		if item.ActivatedAt != nil || item.CompletedAt != nil {
			t.Fatalf("%s must clear activation timestamps", id)
		}
		if item.Order <= lastOrder {
			t.Fatalf("%s order %d not increasing past %d", id, item.Order, lastOrder)
		}
		lastOrder = item.Order
	}

	other, err := module.Store.GetAgendaItem(context.Background(), "item-other")
	if err != nil {
		t.Fatalf("load item-other failed: %v", err)
	}
	if other.Status != entities.AgendaItemStatusArchived || other.ArchivedAt == nil {
		t.Fatalf("other items archive in place: %+v", other)
	}
	if other.EventID != "event-cancelled" {
		t.Fatalf("archived items stay on the cancelled event: %+v", other)
	}

	if len(result.PathChanges) != 1 || result.PathChanges[0].NewEventID != "event-target" {
		t.Fatalf("path segment not rewritten: %+v", result.PathChanges)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "event.cancelled" {
		t.Fatalf("expected one event.cancelled outbox row, got %+v", pending)
	}
}

func TestCancelEventForcedItemFailureContinues(t *testing.T) {
	module := recoveryModule(t)
	module.Store.FailUpdateFor("item-election")

	result, err := module.Events.CancelEvent(context.Background(), "event-cancelled", "admin-1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if len(result.Report.Failures) != 1 || result.Report.Failures[0].AgendaItemID != "item-election" {
		t.Fatalf("expected item-election failure, got %+v", result.Report.Failures)
	}
	// The failure must not block the remaining items.
	if len(result.Report.MovedItemIDs) != 2 {
		t.Fatalf("remaining items must still move, got %+v", result.Report.MovedItemIDs)
	}
	if len(result.Report.ArchivedItemIDs) != 1 {
		t.Fatalf("remaining items must still archive, got %+v", result.Report.ArchivedItemIDs)
	}
}

func TestCancelEventWithoutTargetIsBlocked(t *testing.T) {
	events := []entities.Event{
		{EventID: "event-only", OwningGroupID: "regional", StartsAt: testNow.Add(72 * time.Hour), Status: entities.EventStatusActive},
	}
	agenda := []entities.AgendaItem{
		{AgendaItemID: "item-amendment", EventID: "event-only", Type: entities.AgendaItemTypeAmendment, Status: entities.AgendaItemStatusScheduled, Order: 1},
	}
	module := eventmodule.NewInMemoryModule(events, agenda, nil)
	module.Store.SetNow(testNow)

	_, err := module.Events.CancelEvent(context.Background(), "event-only", "admin-1")
	if !errors.Is(err, domainerrors.ErrNoReassignmentTarget) {
		t.Fatalf("expected ErrNoReassignmentTarget, got %v", err)
	}

	event, getErr := module.Store.GetEvent(context.Background(), "event-only")
	if getErr != nil {
		t.Fatalf("load event failed: %v", getErr)
	}
	if event.IsCancelled() {
		t.Fatalf("blocked cancellation must leave the event untouched")
	}
	item, getErr := module.Store.GetAgendaItem(context.Background(), "item-amendment")
	if getErr != nil {
		t.Fatalf("load item failed: %v", getErr)
	}
	if item.Status != entities.AgendaItemStatusScheduled || item.EventID != "event-only" {
		t.Fatalf("blocked cancellation must leave agenda untouched: %+v", item)
	}
}

func TestCancelEventOnlyOtherItemsNeedsNoTarget(t *testing.T) {
	events := []entities.Event{
		{EventID: "event-social", OwningGroupID: "regional", StartsAt: testNow.Add(72 * time.Hour), Status: entities.EventStatusActive},
	}
	agenda := []entities.AgendaItem{
		{AgendaItemID: "item-social", EventID: "event-social", Type: entities.AgendaItemTypeOther, Status: entities.AgendaItemStatusScheduled, Order: 1},
	}
	module := eventmodule.NewInMemoryModule(events, agenda, nil)
	module.Store.SetNow(testNow)

	result, err := module.Events.CancelEvent(context.Background(), "event-social", "admin-1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !result.Validation.IsValid || result.Validation.RequiresReassignment {
		t.Fatalf("other-only agendas need no target: %+v", result.Validation)
	}
	if result.Validation.TargetEventID != "" {
		t.Fatalf("no target expected, got %q", result.Validation.TargetEventID)
	}
	if len(result.Report.ArchivedItemIDs) != 1 {
		t.Fatalf("other items archive, got %+v", result.Report)
	}
}

func TestCancelEventMarksUnfixablePathsInvalid(t *testing.T) {
	events := []entities.Event{
		{EventID: "event-social", OwningGroupID: "regional", StartsAt: testNow.Add(72 * time.Hour), Status: entities.EventStatusActive},
	}
	module := eventmodule.NewInMemoryModule(events, nil, nil)
	module.Store.SetNow(testNow)
	module.Store.SetAmendmentPath(ports.AmendmentRef{
		AmendmentID: "amendment-1",
		PathValid:   true,
		Segments: []ports.PathSegmentRef{
			{EntityType: "event", EntityID: "event-social", GroupID: "regional"},
		},
	})

	result, err := module.Events.CancelEvent(context.Background(), "event-social", "admin-1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if len(result.PathChanges) != 1 || !result.PathChanges[0].Invalidated {
		t.Fatalf("expected path invalidation, got %+v", result.PathChanges)
	}
	reason, flagged := module.Store.PathInvalidReason("amendment-1")
	if !flagged || reason == "" {
		t.Fatalf("invalidation reason must be recorded, got %q flagged=%v", reason, flagged)
	}
}

func TestCancelCancelledEventRejected(t *testing.T) {
	module := recoveryModule(t)
	if _, err := module.Events.CancelEvent(context.Background(), "event-cancelled", "admin-1"); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	_, err := module.Events.CancelEvent(context.Background(), "event-cancelled", "admin-1")
	if !errors.Is(err, domainerrors.ErrEventAlreadyCancelled) {
		t.Fatalf("expected ErrEventAlreadyCancelled, got %v", err)
	}
}
