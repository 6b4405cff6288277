package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	groupnetwork "concord/contexts/policy-governance/group-network-service"
	"concord/contexts/policy-governance/group-network-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/group-network-service/domain/errors"
	"concord/contexts/policy-governance/group-network-service/ports"
)

func chainModule(t *testing.T) groupnetwork.Module {
	t.Helper()
	groups := []entities.Group{
		{GroupID: "local", Name: "Local"},
		{GroupID: "regional", Name: "Regional"},
		{GroupID: "national", Name: "National"},
	}
	relationships := []entities.GroupRelationship{
		{RelationshipID: "rel-1", ParentGroupID: "regional", ChildGroupID: "local", Right: "submit"},
		{RelationshipID: "rel-2", ParentGroupID: "national", ChildGroupID: "regional", Right: "submit"},
	}
	return groupnetwork.NewInMemoryModule(groups, relationships, nil)
}

func TestBuildRoutePairsGroupsWithFutureEvents(t *testing.T) {
	module := chainModule(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	module.Store.SetNow(now)

	// Regional has an upcoming event; national does not.
	module.Store.SetEvent(ports.EventRef{EventID: "event-early", GroupID: "regional", StartsAt: now.Add(48 * time.Hour)})
	module.Store.SetEvent(ports.EventRef{EventID: "event-late", GroupID: "regional", StartsAt: now.Add(96 * time.Hour)})
	module.Store.SetEvent(ports.EventRef{EventID: "event-past", GroupID: "national", StartsAt: now.Add(-24 * time.Hour)})

	segments, err := module.Routes.BuildRoute(context.Background(), []string{"local"}, "national")
	if err != nil {
		t.Fatalf("build route failed: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].EntityType != entities.SegmentTypeGroup || segments[0].EntityID != "local" {
		t.Fatalf("unexpected origin segment: %+v", segments[0])
	}
	if segments[1].EntityType != entities.SegmentTypeEvent || segments[1].EntityID != "event-early" {
		t.Fatalf("expected nearest future event for regional, got %+v", segments[1])
	}
	if segments[2].EntityType != entities.SegmentTypeGroup || segments[2].EntityID != "national" {
		t.Fatalf("past events must not be picked: %+v", segments[2])
	}
	for _, segment := range segments {
		if segment.Status != entities.SegmentStatusPending {
			t.Fatalf("new segments start pending, got %q", segment.Status)
		}
	}
}

func TestShortestRouteNoRoute(t *testing.T) {
	module := chainModule(t)
	if err := module.Store.SaveGroup(context.Background(), entities.Group{GroupID: "island", Name: "Island"}); err != nil {
		t.Fatalf("save group failed: %v", err)
	}

	_, err := module.Routes.ShortestRoute(context.Background(), []string{"local"}, "island")
	if !errors.Is(err, domainerrors.ErrNoRouteFound) {
		t.Fatalf("expected ErrNoRouteFound, got %v", err)
	}
}

func TestShortestRouteUnknownTarget(t *testing.T) {
	module := chainModule(t)
	_, err := module.Routes.ShortestRoute(context.Background(), []string{"local"}, "missing")
	if !errors.Is(err, domainerrors.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
