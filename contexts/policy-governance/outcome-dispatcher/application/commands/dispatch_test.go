package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
	outcome "concord/contexts/policy-governance/outcome-dispatcher"
	"concord/contexts/policy-governance/outcome-dispatcher/application/commands"
	domainerrors "concord/contexts/policy-governance/outcome-dispatcher/domain/errors"
)

func routedAmendment() amendmententities.Amendment {
	return amendmententities.Amendment{
		AmendmentID:    "amendment-1",
		Title:          "Shared garden budget",
		AuthorID:       "author-1",
		OwningGroupID:  "group-origin",
		TargetGroupID:  "group-target",
		WorkflowStatus: amendmententities.StatusEventVoting,
		PathStatus:     amendmententities.PathStatusValid,
		PathSegments: []amendmententities.PathSegment{
			{EntityType: amendmententities.SegmentTypeGroup, GroupID: "group-origin", Status: amendmententities.SegmentStatusResolved},
			{EntityType: amendmententities.SegmentTypeEvent, EntityID: "event-current", GroupID: "group-origin", Status: amendmententities.SegmentStatusPending},
			{EntityType: amendmententities.SegmentTypeEvent, EntityID: "event-next", GroupID: "group-mid", Status: amendmententities.SegmentStatusPending},
			{EntityType: amendmententities.SegmentTypeGroup, GroupID: "group-target", Status: amendmententities.SegmentStatusPending},
		},
	}
}

func dispatchFixture(t *testing.T) outcome.Module {
	t.Helper()
	items := []evententities.AgendaItem{
		{
			AgendaItemID: "item-current",
			EventID:      "event-current",
			Title:        "Shared garden budget",
			Type:         evententities.AgendaItemTypeAmendment,
			Status:       evententities.AgendaItemStatusActive,
			Order:        1,
			AmendmentID:  "amendment-1",
		},
		{
			AgendaItemID: "item-next-existing",
			EventID:      "event-next",
			Title:        "Standing business",
			Type:         evententities.AgendaItemTypeOther,
			Status:       evententities.AgendaItemStatusScheduled,
			Order:        4,
		},
	}
	module := outcome.NewInMemoryModule(items, []amendmententities.Amendment{routedAmendment()}, slog.Default())
	module.Store.SetNow(time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC))
	return module
}

func TestDispatchPassedForwardsToNextEvent(t *testing.T) {
	module := dispatchFixture(t)

	result, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		AgendaItemID:   "item-current",
		AmendmentID:    "amendment-1",
		AmendmentTitle: "Shared garden budget",
		EventID:        "event-current",
		Result:         commands.ResultPassed,
		TargetEventID:  "event-next",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if result.AgendaItem.Outcome != evententities.OutcomeApproved {
		t.Fatalf("expected approved outcome, got %q", result.AgendaItem.Outcome)
	}
	if result.AgendaItem.Status != evententities.AgendaItemStatusCompleted || result.AgendaItem.CompletedAt == nil {
		t.Fatalf("expected completed item with timestamp, got %+v", result.AgendaItem)
	}
	if result.NewAgendaItemID == "" {
		t.Fatalf("expected a forwarded agenda item id")
	}

	forwarded, err := module.Store.GetAgendaItem(context.Background(), result.NewAgendaItemID)
	if err != nil {
		t.Fatalf("forwarded item lookup failed: %v", err)
	}
	if forwarded.EventID != "event-next" || forwarded.Type != evententities.AgendaItemTypeAmendment {
		t.Fatalf("forwarded item landed wrong: %+v", forwarded)
	}
	if forwarded.Order != 5 {
		t.Fatalf("expected forwarded item after existing agenda, got order %d", forwarded.Order)
	}
	if forwarded.AmendmentID != "amendment-1" || forwarded.Title != "Shared garden budget" {
		t.Fatalf("forwarded item lost its amendment link: %+v", forwarded)
	}

	amendment, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if amendment.WorkflowStatus != amendmententities.StatusEventSuggesting {
		t.Fatalf("expected event_suggesting after forward, got %q", amendment.WorkflowStatus)
	}
	if amendment.PathSegments[1].Status != amendmententities.SegmentStatusResolved {
		t.Fatalf("expected cleared segment resolved, got %q", amendment.PathSegments[1].Status)
	}
	if amendment.PathSegments[2].Status != amendmententities.SegmentStatusPending {
		t.Fatalf("next segment should stay pending, got %q", amendment.PathSegments[2].Status)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "notification.amendment_forwarded" {
		t.Fatalf("expected one forwarded notification, got %+v", pending)
	}
}

func TestDispatchPassedParksOnGroupWithoutEvent(t *testing.T) {
	module := dispatchFixture(t)

	result, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		AgendaItemID:  "item-current",
		AmendmentID:   "amendment-1",
		EventID:       "event-current",
		Result:        commands.ResultPassed,
		TargetGroupID: "group-target",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if result.NewAgendaItemID != "" {
		t.Fatalf("parked dispatch should not create an agenda item")
	}

	amendment, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if amendment.PendingForGroupID != "group-target" {
		t.Fatalf("expected amendment parked for group-target, got %q", amendment.PendingForGroupID)
	}
	if amendment.WorkflowStatus != amendmententities.StatusEventVoting {
		t.Fatalf("parked amendment should keep its status, got %q", amendment.WorkflowStatus)
	}
	if amendment.PathSegments[1].Status != amendmententities.SegmentStatusResolved {
		t.Fatalf("expected cleared segment resolved, got %q", amendment.PathSegments[1].Status)
	}
}

func TestDispatchPassedWithoutTargetsIsTerminal(t *testing.T) {
	module := dispatchFixture(t)

	if _, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		AgendaItemID: "item-current",
		AmendmentID:  "amendment-1",
		EventID:      "event-current",
		Result:       commands.ResultPassed,
	}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	amendment, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if amendment.WorkflowStatus != amendmententities.StatusPassed {
		t.Fatalf("expected terminal passed, got %q", amendment.WorkflowStatus)
	}
	if amendment.DecidedAt == nil {
		t.Fatalf("terminal amendment should carry a decision timestamp")
	}
}

func TestDispatchRejectedTerminatesAmendment(t *testing.T) {
	module := dispatchFixture(t)

	result, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		AgendaItemID:  "item-current",
		AmendmentID:   "amendment-1",
		EventID:       "event-current",
		Result:        commands.ResultRejected,
		TargetEventID: "event-next",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if result.AgendaItem.Outcome != evententities.OutcomeRejected || result.AgendaItem.Status != evententities.AgendaItemStatusCompleted {
		t.Fatalf("expected rejected completed item, got %+v", result.AgendaItem)
	}
	if result.NewAgendaItemID != "" {
		t.Fatalf("rejected outcome must not forward, got item %q", result.NewAgendaItemID)
	}

	amendment, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if amendment.WorkflowStatus != amendmententities.StatusRejected || amendment.DecidedAt == nil {
		t.Fatalf("expected terminal rejected amendment, got %+v", amendment)
	}
}

func TestDispatchTieFlagsRevoteWithoutCompleting(t *testing.T) {
	module := dispatchFixture(t)

	result, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		AgendaItemID: "item-current",
		AmendmentID:  "amendment-1",
		EventID:      "event-current",
		Result:       commands.ResultTie,
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !result.RequiresRevote {
		t.Fatalf("tie should require a revote")
	}

	item, err := module.Store.GetAgendaItem(context.Background(), "item-current")
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if item.Outcome != evententities.OutcomeTie || !item.RequiresRevote {
		t.Fatalf("expected tie outcome flagged for revote, got %+v", item)
	}
	if item.Status != evententities.AgendaItemStatusActive || item.CompletedAt != nil {
		t.Fatalf("tie must leave the item open, got %+v", item)
	}

	amendment, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if amendment.WorkflowStatus != amendmententities.StatusEventVoting {
		t.Fatalf("tie must not move the amendment, got %q", amendment.WorkflowStatus)
	}
}

func TestDispatchReplaysAndRejectsConflicts(t *testing.T) {
	module := dispatchFixture(t)
	cmd := commands.DispatchOutcomeCommand{
		AgendaItemID:   "item-current",
		AmendmentID:    "amendment-1",
		AmendmentTitle: "Shared garden budget",
		EventID:        "event-current",
		Result:         commands.ResultPassed,
		TargetEventID:  "event-next",
	}

	first, err := module.Dispatch.DispatchOutcome(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first dispatch failed: %v", err)
	}
	replay, err := module.Dispatch.DispatchOutcome(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replay.Replayed {
		t.Fatalf("second identical dispatch should replay")
	}
	if replay.AgendaItem.Status != evententities.AgendaItemStatusCompleted {
		t.Fatalf("replay should surface the stored outcome, got %+v", replay.AgendaItem)
	}

	followers := module.Store.AgendaItemsForEvent("event-next")
	if len(followers) != 2 {
		t.Fatalf("replay must not forward twice, agenda: %v", followers)
	}
	if followers[1] != first.NewAgendaItemID {
		t.Fatalf("expected forwarded item %q last, agenda: %v", first.NewAgendaItemID, followers)
	}

	conflicting := cmd
	conflicting.Result = commands.ResultRejected
	if _, err := module.Dispatch.DispatchOutcome(context.Background(), conflicting); !errors.Is(err, domainerrors.ErrOutcomeConflict) {
		t.Fatalf("expected outcome conflict, got %v", err)
	}
}

func TestDispatchRejectsUnknownResult(t *testing.T) {
	module := dispatchFixture(t)

	if _, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		AgendaItemID: "item-current",
		Result:       commands.Result("maybe"),
	}); !errors.Is(err, domainerrors.ErrUnknownResult) {
		t.Fatalf("expected unknown result error, got %v", err)
	}
	if _, err := module.Dispatch.DispatchOutcome(context.Background(), commands.DispatchOutcomeCommand{
		Result: commands.ResultPassed,
	}); !errors.Is(err, domainerrors.ErrInvalidDispatchInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}
