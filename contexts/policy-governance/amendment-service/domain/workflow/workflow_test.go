package workflow_test

import (
	"errors"
	"testing"
	"time"

	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	"concord/contexts/policy-governance/amendment-service/domain/workflow"
)

var allStatuses = []entities.WorkflowStatus{
	entities.StatusCollaborativeEditing,
	entities.StatusInternalSuggesting,
	entities.StatusInternalVoting,
	entities.StatusViewing,
	entities.StatusEventSuggesting,
	entities.StatusEventVoting,
	entities.StatusPassed,
	entities.StatusRejected,
}

func legalSet(current entities.WorkflowStatus) map[entities.WorkflowStatus]bool {
	set := make(map[entities.WorkflowStatus]bool)
	for _, target := range workflow.LegalTargets(current) {
		set[target] = true
	}
	return set
}

func TestCanTransitionMatchesAdjacencyForAllPairs(t *testing.T) {
	for _, current := range allStatuses {
		legal := legalSet(current)
		for _, target := range allStatuses {
			got := workflow.CanTransition(current, target)
			if got != legal[target] {
				t.Fatalf("CanTransition(%s, %s) = %v, adjacency says %v", current, target, got, legal[target])
			}
		}
	}
}

func TestTerminalStatusesHaveNoSuccessors(t *testing.T) {
	for _, terminal := range []entities.WorkflowStatus{entities.StatusPassed, entities.StatusRejected} {
		if targets := workflow.LegalTargets(terminal); len(targets) != 0 {
			t.Fatalf("%s must be terminal, got successors %v", terminal, targets)
		}
		for _, target := range allStatuses {
			if workflow.CanTransition(terminal, target) {
				t.Fatalf("CanTransition(%s, %s) must be false", terminal, target)
			}
		}
	}
}

func TestEditingPhaseStatusesAreMutuallyReachable(t *testing.T) {
	editing := []entities.WorkflowStatus{
		entities.StatusCollaborativeEditing,
		entities.StatusInternalSuggesting,
		entities.StatusInternalVoting,
		entities.StatusViewing,
	}
	for _, from := range editing {
		for _, to := range editing {
			if from == to {
				continue
			}
			if !workflow.CanTransition(from, to) {
				t.Fatalf("editing statuses must be mutually reachable, %s -> %s denied", from, to)
			}
		}
		if !workflow.CanTransition(from, entities.StatusEventSuggesting) {
			t.Fatalf("%s must reach event_suggesting", from)
		}
	}
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	amendment := entities.Amendment{WorkflowStatus: entities.StatusCollaborativeEditing}
	err := workflow.Apply(&amendment, entities.StatusPassed, time.Now())
	if !errors.Is(err, domainerrors.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	var illegal workflow.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %T", err)
	}
	if illegal.From != entities.StatusCollaborativeEditing || illegal.To != entities.StatusPassed {
		t.Fatalf("unexpected from/to: %+v", illegal)
	}
	if amendment.WorkflowStatus != entities.StatusCollaborativeEditing {
		t.Fatalf("status must be untouched on rejection, got %s", amendment.WorkflowStatus)
	}
}

func TestApplyStampsTerminalDecision(t *testing.T) {
	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	amendment := entities.Amendment{WorkflowStatus: entities.StatusEventVoting}
	if err := workflow.Apply(&amendment, entities.StatusPassed, at); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if amendment.WorkflowStatus != entities.StatusPassed {
		t.Fatalf("expected passed, got %s", amendment.WorkflowStatus)
	}
	if amendment.StatusChangedAt != at || amendment.UpdatedAt != at {
		t.Fatalf("timestamps not recorded: %+v", amendment)
	}
	if amendment.DecidedAt == nil || !amendment.DecidedAt.Equal(at) {
		t.Fatalf("terminal move must stamp DecidedAt, got %v", amendment.DecidedAt)
	}
}
