package workers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
	outcome "concord/contexts/policy-governance/outcome-dispatcher"
	"concord/contexts/policy-governance/outcome-dispatcher/ports"
)

func sessionClosedEnvelope(t *testing.T, result string) ports.EventEnvelope {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"session_id":     "session-1",
		"agenda_item_id": "item-current",
		"amendment_id":   "amendment-1",
		"event_id":       "event-current",
		"kind":           "amendment",
		"result":         result,
		"quorum_reached": true,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return ports.EventEnvelope{
		EventID:       "envelope-1",
		EventType:     "voting.session_closed",
		OccurredAt:    time.Date(2025, time.June, 10, 19, 0, 0, 0, time.UTC),
		SourceService: "voting-session-service",
		SchemaVersion: 1,
		PartitionKey:  "item-current",
		Data:          payload,
	}
}

func TestConsumerForwardsAlongStoredRoute(t *testing.T) {
	amendment := amendmententities.Amendment{
		AmendmentID:    "amendment-1",
		Title:          "Shared garden budget",
		AuthorID:       "author-1",
		OwningGroupID:  "group-origin",
		TargetGroupID:  "group-target",
		WorkflowStatus: amendmententities.StatusEventVoting,
		PathStatus:     amendmententities.PathStatusValid,
		PathSegments: []amendmententities.PathSegment{
			{EntityType: amendmententities.SegmentTypeEvent, EntityID: "event-current", GroupID: "group-origin", Status: amendmententities.SegmentStatusPending},
			{EntityType: amendmententities.SegmentTypeEvent, EntityID: "event-next", GroupID: "group-mid", Status: amendmententities.SegmentStatusPending},
		},
	}
	items := []evententities.AgendaItem{{
		AgendaItemID: "item-current",
		EventID:      "event-current",
		Title:        "Shared garden budget",
		Type:         evententities.AgendaItemTypeAmendment,
		Status:       evententities.AgendaItemStatusActive,
		Order:        1,
		AmendmentID:  "amendment-1",
	}}
	module := outcome.NewInMemoryModule(items, []amendmententities.Amendment{amendment}, slog.Default())

	if err := module.Consumer.Handle(context.Background(), sessionClosedEnvelope(t, "passed")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	forwarded := module.Store.AgendaItemsForEvent("event-next")
	if len(forwarded) != 1 {
		t.Fatalf("expected one forwarded item on the next event, got %v", forwarded)
	}
	updated, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if updated.WorkflowStatus != amendmententities.StatusEventSuggesting {
		t.Fatalf("expected event_suggesting after forwarded outcome, got %q", updated.WorkflowStatus)
	}
}

func TestConsumerEndsRouteAtFinalSegment(t *testing.T) {
	amendment := amendmententities.Amendment{
		AmendmentID:    "amendment-1",
		Title:          "Shared garden budget",
		WorkflowStatus: amendmententities.StatusEventVoting,
		PathStatus:     amendmententities.PathStatusValid,
		PathSegments: []amendmententities.PathSegment{
			{EntityType: amendmententities.SegmentTypeEvent, EntityID: "event-current", GroupID: "group-target", Status: amendmententities.SegmentStatusPending},
		},
	}
	items := []evententities.AgendaItem{{
		AgendaItemID: "item-current",
		EventID:      "event-current",
		Title:        "Shared garden budget",
		Type:         evententities.AgendaItemTypeAmendment,
		Status:       evententities.AgendaItemStatusActive,
		Order:        1,
		AmendmentID:  "amendment-1",
	}}
	module := outcome.NewInMemoryModule(items, []amendmententities.Amendment{amendment}, slog.Default())

	if err := module.Consumer.Handle(context.Background(), sessionClosedEnvelope(t, "passed")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	updated, err := module.Store.GetAmendment(context.Background(), "amendment-1")
	if err != nil {
		t.Fatalf("amendment lookup failed: %v", err)
	}
	if updated.WorkflowStatus != amendmententities.StatusPassed {
		t.Fatalf("expected terminal passed at route end, got %q", updated.WorkflowStatus)
	}
}

func TestConsumerIgnoresForeignEvents(t *testing.T) {
	module := outcome.NewInMemoryModule(nil, nil, slog.Default())
	envelope := ports.EventEnvelope{EventID: "envelope-2", EventType: "event.cancelled"}
	if err := module.Consumer.Handle(context.Background(), envelope); err != nil {
		t.Fatalf("foreign event types must be ignored, got %v", err)
	}
}
