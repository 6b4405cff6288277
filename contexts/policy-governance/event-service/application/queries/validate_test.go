package queries_test

import (
	"context"
	"testing"
	"time"

	eventmodule "concord/contexts/policy-governance/event-service"
	"concord/contexts/policy-governance/event-service/domain/entities"
	"concord/contexts/policy-governance/event-service/ports"
)

func TestValidateAmendmentPathFlagsDeadSegments(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	cancelledAt := now
	events := []entities.Event{
		{EventID: "event-live", OwningGroupID: "regional", StartsAt: now.Add(72 * time.Hour), Status: entities.EventStatusActive},
		{EventID: "event-dead", OwningGroupID: "regional", StartsAt: now.Add(48 * time.Hour), Status: entities.EventStatusCancelled, CancelledAt: &cancelledAt},
	}
	module := eventmodule.NewInMemoryModule(events, nil, nil)
	module.Store.SetNow(now)
	module.Store.SetGroup("regional")

	segments := []ports.PathSegmentRef{
		{EntityType: "group", EntityID: "regional", GroupID: "regional"},
		{EntityType: "event", EntityID: "event-live", GroupID: "regional"},
		{EntityType: "event", EntityID: "event-dead", GroupID: "regional"},
		{EntityType: "event", EntityID: "event-missing", GroupID: "regional"},
		{EntityType: "group", EntityID: "ghost", GroupID: "ghost"},
	}
	issues, err := module.Handler.Validation.ValidateAmendmentPath(context.Background(), segments)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %+v", issues)
	}
	if issues[0].Index != 2 || issues[1].Index != 3 || issues[2].Index != 4 {
		t.Fatalf("issue indexes wrong: %+v", issues)
	}
}

func TestPathAuditFlagsBrokenRoutes(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	module := eventmodule.NewInMemoryModule(nil, nil, nil)
	module.Store.SetNow(now)
	module.Store.SetGroup("regional")
	module.Store.SetAmendmentPath(ports.AmendmentRef{
		AmendmentID: "amendment-ok",
		PathValid:   true,
		Segments:    []ports.PathSegmentRef{{EntityType: "group", EntityID: "regional", GroupID: "regional"}},
	})
	module.Store.SetAmendmentPath(ports.AmendmentRef{
		AmendmentID: "amendment-broken",
		PathValid:   true,
		Segments:    []ports.PathSegmentRef{{EntityType: "event", EntityID: "event-missing", GroupID: "regional"}},
	})

	if err := module.PathAudit.RunOnce(context.Background()); err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if _, flagged := module.Store.PathInvalidReason("amendment-broken"); !flagged {
		t.Fatalf("broken route must be flagged")
	}
	if _, flagged := module.Store.PathInvalidReason("amendment-ok"); flagged {
		t.Fatalf("intact route must not be flagged")
	}
}
