package commands_test

import (
	"context"
	"errors"
	"testing"

	amendmentmodule "concord/contexts/policy-governance/amendment-service"
	"concord/contexts/policy-governance/amendment-service/application/commands"
	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	"concord/contexts/policy-governance/amendment-service/ports"
)

type stubRouteBuilder struct {
	segments []ports.RouteSegment
	calls    int
}

func (b *stubRouteBuilder) BuildRoute(_ context.Context, _ []string, _ string) ([]ports.RouteSegment, error) {
	b.calls++
	return b.segments, nil
}

func submitCommand() commands.SubmitAmendmentCommand {
	return commands.SubmitAmendmentCommand{
		IdempotencyKey: "key-1",
		Title:          "Lower quorum to 40 percent",
		AuthorID:       "member-1",
		OwningGroupID:  "local",
		TargetGroupID:  "national",
		MemberGroupIDs: []string{"local"},
	}
}

func TestSubmitAmendmentBuildsRouteAndReplays(t *testing.T) {
	routes := &stubRouteBuilder{segments: []ports.RouteSegment{
		{EntityType: "group", EntityID: "local", GroupID: "local"},
		{EntityType: "event", EntityID: "event-1", GroupID: "regional"},
		{EntityType: "group", EntityID: "national", GroupID: "national"},
	}}
	module := amendmentmodule.NewInMemoryModule(nil, routes, nil)

	result, err := module.Amendments.SubmitAmendment(context.Background(), submitCommand())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	amendment := result.Amendment
	if amendment.WorkflowStatus != entities.StatusCollaborativeEditing {
		t.Fatalf("new amendments start in collaborative_editing, got %s", amendment.WorkflowStatus)
	}
	if amendment.PathStatus != entities.PathStatusValid {
		t.Fatalf("new paths start valid, got %s", amendment.PathStatus)
	}
	if len(amendment.PathSegments) != 3 {
		t.Fatalf("expected 3 path segments, got %d", len(amendment.PathSegments))
	}
	if amendment.PathSegments[1].EntityType != entities.SegmentTypeEvent || amendment.PathSegments[1].EntityID != "event-1" {
		t.Fatalf("event hop not carried over: %+v", amendment.PathSegments[1])
	}
	for _, segment := range amendment.PathSegments {
		if segment.Status != entities.SegmentStatusPending {
			t.Fatalf("segments start pending, got %q", segment.Status)
		}
	}

	replay, err := module.Amendments.SubmitAmendment(context.Background(), submitCommand())
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replay.Replayed || replay.Amendment.AmendmentID != amendment.AmendmentID {
		t.Fatalf("expected replay of %s, got %+v", amendment.AmendmentID, replay)
	}
	if routes.calls != 1 {
		t.Fatalf("replay must not rebuild the route, got %d calls", routes.calls)
	}

	conflict := submitCommand()
	conflict.Title = "Different title"
	if _, err := module.Amendments.SubmitAmendment(context.Background(), conflict); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestTransitionPersistsLegalMoveAndRejectsIllegal(t *testing.T) {
	routes := &stubRouteBuilder{segments: []ports.RouteSegment{{EntityType: "group", EntityID: "national", GroupID: "national"}}}
	module := amendmentmodule.NewInMemoryModule(nil, routes, nil)

	result, err := module.Amendments.SubmitAmendment(context.Background(), submitCommand())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	moved, err := module.Amendments.Transition(context.Background(), commands.TransitionCommand{
		AmendmentID: result.Amendment.AmendmentID,
		Target:      entities.StatusInternalVoting,
		ActorID:     "member-1",
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if moved.WorkflowStatus != entities.StatusInternalVoting {
		t.Fatalf("expected internal_voting, got %s", moved.WorkflowStatus)
	}
	stored, err := module.Store.GetAmendment(context.Background(), moved.AmendmentID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if stored.WorkflowStatus != entities.StatusInternalVoting {
		t.Fatalf("transition not persisted, got %s", stored.WorkflowStatus)
	}

	_, err = module.Amendments.Transition(context.Background(), commands.TransitionCommand{
		AmendmentID: moved.AmendmentID,
		Target:      entities.StatusPassed,
		ActorID:     "member-1",
	})
	if !errors.Is(err, domainerrors.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}
