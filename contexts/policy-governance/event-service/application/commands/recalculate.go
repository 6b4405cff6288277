package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "concord/contexts/policy-governance/event-service/application"
	"concord/contexts/policy-governance/event-service/ports"
)

// PathChange records what happened to one amendment during recalculation.
type PathChange struct {
	AmendmentID  string
	SegmentIndex int
	NewEventID   string
	Invalidated  bool
	Reason       string
}

type RecalculateUseCase struct {
	Amendments ports.AmendmentPathStore
	Logger     *slog.Logger
}

// RecalculateAmendmentPaths repairs stored routes referencing the cancelled
// event. With a known replacement the matching segment is rewritten in
// place; without one the amendment's path is flagged invalid and left for
// manual or scheduled repair. Never auto-advances any amendment.
func (uc RecalculateUseCase) RecalculateAmendmentPaths(ctx context.Context, cancelledEventID string, replacementEventID string) ([]PathChange, error) {
	logger := application.ResolveLogger(uc.Logger)
	cancelledEventID = strings.TrimSpace(cancelledEventID)
	replacementEventID = strings.TrimSpace(replacementEventID)

	amendments, err := uc.Amendments.ListAmendmentsWithEventSegment(ctx, cancelledEventID)
	if err != nil {
		return nil, err
	}

	var changes []PathChange
	for _, amendment := range amendments {
		if amendment.Terminal {
			continue
		}
		for i, segment := range amendment.Segments {
			if segment.EntityType != "event" || segment.EntityID != cancelledEventID {
				continue
			}
			if replacementEventID != "" {
				if err := uc.Amendments.ReplaceSegmentEvent(ctx, amendment.AmendmentID, i, replacementEventID); err != nil {
					return changes, err
				}
				changes = append(changes, PathChange{
					AmendmentID:  amendment.AmendmentID,
					SegmentIndex: i,
					NewEventID:   replacementEventID,
				})
				continue
			}
			reason := fmt.Sprintf("path references cancelled event %s with no replacement", cancelledEventID)
			if err := uc.Amendments.MarkPathInvalid(ctx, amendment.AmendmentID, reason); err != nil {
				return changes, err
			}
			changes = append(changes, PathChange{
				AmendmentID:  amendment.AmendmentID,
				SegmentIndex: i,
				Invalidated:  true,
				Reason:       reason,
			})
		}
	}

	logger.Info("amendment paths recalculated",
		"event", "event_paths_recalculated",
		"module", "policy-governance/event-service",
		"layer", "application",
		"cancelled_event_id", cancelledEventID,
		"replacement_event_id", replacementEventID,
		"changes", len(changes),
	)
	return changes, nil
}
