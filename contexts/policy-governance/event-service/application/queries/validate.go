package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"concord/contexts/policy-governance/event-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/event-service/ports"
)

// CancellationValidation is the answer to "may this event be cancelled".
// When reassignment is required, TargetEventID names the substitute.
type CancellationValidation struct {
	IsValid              bool
	RequiresReassignment bool
	TargetEventID        string
	TargetEventTitle     string
	Reason               string
}

// PathIssue flags one invalid segment of an amendment route.
type PathIssue struct {
	Index  int
	Reason string
}

type ValidationUseCase struct {
	Events ports.EventRepository
	Agenda ports.AgendaRepository
	Groups ports.GroupDirectory
	Clock  ports.Clock
}

// ValidateEventCancellation checks whether the event's agenda can survive a
// cancellation. Amendment and election items need a substitute event; if the
// owning group has none, validation fails and nothing is touched.
func (uc ValidationUseCase) ValidateEventCancellation(ctx context.Context, eventID string) (CancellationValidation, error) {
	event, err := uc.Events.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return CancellationValidation{}, err
	}

	items, err := uc.Agenda.ListAgendaItemsByEvent(ctx, event.EventID)
	if err != nil {
		return CancellationValidation{}, err
	}
	requiresReassignment := false
	for _, item := range items {
		if item.Type == entities.AgendaItemTypeAmendment || item.Type == entities.AgendaItemTypeElection {
			requiresReassignment = true
			break
		}
	}
	if !requiresReassignment {
		return CancellationValidation{IsValid: true}, nil
	}

	target, found, err := uc.FindValidReassignmentEvent(ctx, event)
	if err != nil {
		return CancellationValidation{}, err
	}
	if !found {
		return CancellationValidation{
			RequiresReassignment: true,
			Reason:               domainerrors.ErrNoReassignmentTarget.Error(),
		}, nil
	}
	return CancellationValidation{
		IsValid:              true,
		RequiresReassignment: true,
		TargetEventID:        target.EventID,
		TargetEventTitle:     target.Title,
	}, nil
}

// FindValidReassignmentEvent returns the owning group's first non-cancelled
// event after the cancelled event's date, or after now when that date has
// already passed.
func (uc ValidationUseCase) FindValidReassignmentEvent(ctx context.Context, cancelled entities.Event) (entities.Event, bool, error) {
	cutoff := cancelled.StartsAt
	if now := uc.now(); cutoff.Before(now) {
		cutoff = now
	}

	candidates, err := uc.Events.ListEventsByGroup(ctx, cancelled.OwningGroupID)
	if err != nil {
		return entities.Event{}, false, err
	}
	for _, candidate := range candidates {
		if candidate.EventID == cancelled.EventID || candidate.IsCancelled() {
			continue
		}
		if candidate.StartsAt.After(cutoff) {
			return candidate, true, nil
		}
	}
	return entities.Event{}, false, nil
}

// ValidateAmendmentPath audits every segment of an amendment route: event
// segments must reference existing non-cancelled events, group segments
// existing groups. Returns one issue per broken segment.
func (uc ValidationUseCase) ValidateAmendmentPath(ctx context.Context, segments []ports.PathSegmentRef) ([]PathIssue, error) {
	var issues []PathIssue
	for i, segment := range segments {
		switch segment.EntityType {
		case "event":
			event, err := uc.Events.GetEvent(ctx, segment.EntityID)
			if errors.Is(err, domainerrors.ErrEventNotFound) {
				issues = append(issues, PathIssue{Index: i, Reason: fmt.Sprintf("event %s does not exist", segment.EntityID)})
				continue
			}
			if err != nil {
				return nil, err
			}
			if event.IsCancelled() {
				issues = append(issues, PathIssue{Index: i, Reason: fmt.Sprintf("event %s is cancelled", segment.EntityID)})
			}
		case "group":
			exists, err := uc.Groups.GroupExists(ctx, segment.GroupID)
			if err != nil {
				return nil, err
			}
			if !exists {
				issues = append(issues, PathIssue{Index: i, Reason: fmt.Sprintf("group %s does not exist", segment.GroupID)})
			}
		default:
			issues = append(issues, PathIssue{Index: i, Reason: fmt.Sprintf("unknown segment type %q", segment.EntityType)})
		}
	}
	return issues, nil
}

func (uc ValidationUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
