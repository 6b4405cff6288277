// Package workflow is the amendment lifecycle state machine: a static
// adjacency table over the eight workflow statuses, a pure legality lookup,
// and a single-field apply. Cascading effects belong to the callers.
package workflow

import (
	"fmt"
	"time"

	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
)

// adjacency maps each status to its legal successors. The four editing-phase
// statuses are mutually reachable and each may enter the event-controlled
// phase. passed and rejected are terminal.
var adjacency = map[entities.WorkflowStatus][]entities.WorkflowStatus{
	entities.StatusCollaborativeEditing: {
		entities.StatusInternalSuggesting,
		entities.StatusInternalVoting,
		entities.StatusViewing,
		entities.StatusEventSuggesting,
	},
	entities.StatusInternalSuggesting: {
		entities.StatusCollaborativeEditing,
		entities.StatusInternalVoting,
		entities.StatusViewing,
		entities.StatusEventSuggesting,
	},
	entities.StatusInternalVoting: {
		entities.StatusCollaborativeEditing,
		entities.StatusInternalSuggesting,
		entities.StatusViewing,
		entities.StatusEventSuggesting,
	},
	entities.StatusViewing: {
		entities.StatusCollaborativeEditing,
		entities.StatusInternalSuggesting,
		entities.StatusInternalVoting,
		entities.StatusEventSuggesting,
	},
	entities.StatusEventSuggesting: {
		entities.StatusEventVoting,
		entities.StatusViewing,
		entities.StatusRejected,
	},
	entities.StatusEventVoting: {
		entities.StatusEventSuggesting,
		entities.StatusPassed,
		entities.StatusRejected,
	},
	entities.StatusPassed:   {},
	entities.StatusRejected: {},
}

// IllegalTransitionError reports a requested move absent from the adjacency
// table. It matches ErrIllegalTransition under errors.Is.
type IllegalTransitionError struct {
	From entities.WorkflowStatus
	To   entities.WorkflowStatus
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal workflow transition from %q to %q", e.From, e.To)
}

func (e IllegalTransitionError) Unwrap() error {
	return domainerrors.ErrIllegalTransition
}

// CanTransition is a pure lookup into the adjacency table.
func CanTransition(current, target entities.WorkflowStatus) bool {
	for _, next := range adjacency[current] {
		if next == target {
			return true
		}
	}
	return false
}

// LegalTargets returns the successors of current, nil for terminal or
// unknown statuses.
func LegalTargets(current entities.WorkflowStatus) []entities.WorkflowStatus {
	targets := adjacency[current]
	if len(targets) == 0 {
		return nil
	}
	out := make([]entities.WorkflowStatus, len(targets))
	copy(out, targets)
	return out
}

// Apply moves the amendment to target, recording the change timestamp.
// Terminal targets also stamp DecidedAt. It never coerces an illegal move.
func Apply(amendment *entities.Amendment, target entities.WorkflowStatus, at time.Time) error {
	if !CanTransition(amendment.WorkflowStatus, target) {
		return IllegalTransitionError{From: amendment.WorkflowStatus, To: target}
	}
	amendment.WorkflowStatus = target
	amendment.StatusChangedAt = at
	amendment.UpdatedAt = at
	if target.IsTerminal() {
		decided := at
		amendment.DecidedAt = &decided
	}
	return nil
}
