package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	"concord/contexts/policy-governance/amendment-service/domain/workflow"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
	application "concord/contexts/policy-governance/outcome-dispatcher/application"
	domainerrors "concord/contexts/policy-governance/outcome-dispatcher/domain/errors"
	"concord/contexts/policy-governance/outcome-dispatcher/ports"
)

type Result string

const (
	ResultPassed   Result = "passed"
	ResultRejected Result = "rejected"
	ResultTie      Result = "tie"
)

func IsSupportedResult(result Result) bool {
	switch result {
	case ResultPassed, ResultRejected, ResultTie:
		return true
	default:
		return false
	}
}

// DispatchOutcomeCommand carries a closed session's verdict plus the next
// hop resolved from the amendment's stored route.
type DispatchOutcomeCommand struct {
	AgendaItemID   string
	AmendmentID    string
	AmendmentTitle string
	EventID        string
	EventTitle     string
	TriggeredBy    string
	Result         Result
	TargetGroupID  string
	TargetEventID  string
}

type DispatchResult struct {
	AgendaItem      evententities.AgendaItem
	Amendment       *amendmententities.Amendment
	NewAgendaItemID string
	RequiresRevote  bool
	Replayed        bool
}

// DispatchUseCase applies a session outcome: advance, terminate, or flag for
// revote. Retried dispatches replay through the per-agenda-item idempotency
// record instead of duplicating side effects.
type DispatchUseCase struct {
	Agenda         ports.AgendaRepository
	Amendments     ports.AmendmentRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc DispatchUseCase) DispatchOutcome(ctx context.Context, cmd DispatchOutcomeCommand) (DispatchResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	agendaItemID := strings.TrimSpace(cmd.AgendaItemID)
	if agendaItemID == "" || !IsSupportedResult(cmd.Result) {
		if agendaItemID != "" {
			return DispatchResult{}, domainerrors.ErrUnknownResult
		}
		return DispatchResult{}, domainerrors.ErrInvalidDispatchInput
	}

	now := uc.now()
	idempotencyKey := "outcome:" + agendaItemID
	requestHash := hashDispatchCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, idempotencyKey, now); err != nil {
		return DispatchResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return DispatchResult{}, domainerrors.ErrOutcomeConflict
		}
		item, err := uc.Agenda.GetAgendaItem(ctx, agendaItemID)
		if err != nil {
			return DispatchResult{}, err
		}
		return DispatchResult{AgendaItem: item, RequiresRevote: item.RequiresRevote, Replayed: true}, nil
	}

	item, err := uc.Agenda.GetAgendaItem(ctx, agendaItemID)
	if err != nil {
		return DispatchResult{}, err
	}

	var result DispatchResult
	switch cmd.Result {
	case ResultPassed:
		result, err = uc.dispatchPassed(ctx, cmd, item, now)
	case ResultRejected:
		result, err = uc.dispatchRejected(ctx, cmd, item, now)
	case ResultTie:
		result, err = uc.dispatchTie(ctx, cmd, item, now)
	}
	if err != nil {
		return DispatchResult{}, err
	}

	if err := uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         idempotencyKey,
		RequestHash: requestHash,
		EntityID:    agendaItemID,
		ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
	}); err != nil {
		return DispatchResult{}, err
	}

	logger.Info("session outcome dispatched",
		"event", "outcome_dispatched",
		"module", "policy-governance/outcome-dispatcher",
		"layer", "application",
		"agenda_item_id", agendaItemID,
		"amendment_id", strings.TrimSpace(cmd.AmendmentID),
		"result", string(cmd.Result),
		"target_event_id", strings.TrimSpace(cmd.TargetEventID),
		"target_group_id", strings.TrimSpace(cmd.TargetGroupID),
	)
	return result, nil
}

// dispatchPassed completes the item as approved and advances the amendment:
// to a new agenda item at the target event, to a parked state against the
// target group, or to terminal passed when no hop remains.
func (uc DispatchUseCase) dispatchPassed(ctx context.Context, cmd DispatchOutcomeCommand, item evententities.AgendaItem, now time.Time) (DispatchResult, error) {
	item.Outcome = evententities.OutcomeApproved
	item.Status = evententities.AgendaItemStatusCompleted
	completedAt := now
	item.CompletedAt = &completedAt
	item.UpdatedAt = now
	if err := uc.Agenda.UpdateAgendaItem(ctx, item); err != nil {
		return DispatchResult{}, err
	}

	result := DispatchResult{AgendaItem: item}
	amendmentID := strings.TrimSpace(cmd.AmendmentID)
	if amendmentID == "" {
		return result, nil
	}
	amendment, err := uc.Amendments.GetAmendment(ctx, amendmentID)
	if err != nil {
		return DispatchResult{}, err
	}

	targetEventID := strings.TrimSpace(cmd.TargetEventID)
	targetGroupID := strings.TrimSpace(cmd.TargetGroupID)
	switch {
	case targetEventID != "":
		maxOrder, err := uc.Agenda.MaxOrderForEvent(ctx, targetEventID)
		if err != nil {
			return DispatchResult{}, err
		}
		newItemID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return DispatchResult{}, err
		}
		newItem := evententities.AgendaItem{
			AgendaItemID: newItemID,
			EventID:      targetEventID,
			Title:        cmd.AmendmentTitle,
			Type:         evententities.AgendaItemTypeAmendment,
			Status:       evententities.AgendaItemStatusScheduled,
			Order:        maxOrder + 1,
			AmendmentID:  amendment.AmendmentID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.Agenda.SaveAgendaItem(ctx, newItem); err != nil {
			return DispatchResult{}, err
		}
		if err := workflow.Apply(&amendment, amendmententities.StatusEventSuggesting, now); err != nil {
			return DispatchResult{}, err
		}
		resolveSegment(&amendment, strings.TrimSpace(cmd.EventID), now)
		amendment.PendingForGroupID = ""
		if err := uc.Amendments.UpdateAmendment(ctx, amendment); err != nil {
			return DispatchResult{}, err
		}
		if err := uc.notifyAuthor(ctx, cmd, amendment, targetEventID, now); err != nil {
			return DispatchResult{}, err
		}
		result.NewAgendaItemID = newItemID

	case targetGroupID != "":
		// No concrete event yet. Park the amendment against the group; its
		// next event picks it up.
		amendment.PendingForGroupID = targetGroupID
		resolveSegment(&amendment, strings.TrimSpace(cmd.EventID), now)
		amendment.UpdatedAt = now
		if err := uc.Amendments.UpdateAmendment(ctx, amendment); err != nil {
			return DispatchResult{}, err
		}

	default:
		if err := workflow.Apply(&amendment, amendmententities.StatusPassed, now); err != nil {
			return DispatchResult{}, err
		}
		resolveSegment(&amendment, strings.TrimSpace(cmd.EventID), now)
		if err := uc.Amendments.UpdateAmendment(ctx, amendment); err != nil {
			return DispatchResult{}, err
		}
	}
	result.Amendment = &amendment
	return result, nil
}

func (uc DispatchUseCase) dispatchRejected(ctx context.Context, cmd DispatchOutcomeCommand, item evententities.AgendaItem, now time.Time) (DispatchResult, error) {
	item.Outcome = evententities.OutcomeRejected
	item.Status = evententities.AgendaItemStatusCompleted
	completedAt := now
	item.CompletedAt = &completedAt
	item.UpdatedAt = now
	if err := uc.Agenda.UpdateAgendaItem(ctx, item); err != nil {
		return DispatchResult{}, err
	}

	result := DispatchResult{AgendaItem: item}
	amendmentID := strings.TrimSpace(cmd.AmendmentID)
	if amendmentID == "" {
		return result, nil
	}
	amendment, err := uc.Amendments.GetAmendment(ctx, amendmentID)
	if err != nil {
		return DispatchResult{}, err
	}
	if err := workflow.Apply(&amendment, amendmententities.StatusRejected, now); err != nil {
		return DispatchResult{}, err
	}
	if err := uc.Amendments.UpdateAmendment(ctx, amendment); err != nil {
		return DispatchResult{}, err
	}
	result.Amendment = &amendment
	return result, nil
}

// dispatchTie records the tie and flags the item for a revote. No workflow
// transition happens; the caller schedules the revote.
func (uc DispatchUseCase) dispatchTie(ctx context.Context, _ DispatchOutcomeCommand, item evententities.AgendaItem, now time.Time) (DispatchResult, error) {
	item.Outcome = evententities.OutcomeTie
	item.RequiresRevote = true
	item.UpdatedAt = now
	if err := uc.Agenda.UpdateAgendaItem(ctx, item); err != nil {
		return DispatchResult{}, err
	}
	return DispatchResult{AgendaItem: item, RequiresRevote: true}, nil
}

func (uc DispatchUseCase) notifyAuthor(ctx context.Context, cmd DispatchOutcomeCommand, amendment amendmententities.Amendment, targetEventID string, now time.Time) error {
	envelopeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newOutcomeEnvelope(envelopeID, "notification.amendment_forwarded", strings.TrimSpace(cmd.AgendaItemID), now, map[string]any{
		"amendment_id":    amendment.AmendmentID,
		"amendment_title": amendment.Title,
		"author_id":       amendment.AuthorID,
		"from_event_id":   strings.TrimSpace(cmd.EventID),
		"to_event_id":     targetEventID,
		"triggered_by":    strings.TrimSpace(cmd.TriggeredBy),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

// resolveSegment marks the hop the amendment just cleared.
func resolveSegment(amendment *amendmententities.Amendment, eventID string, now time.Time) {
	if eventID == "" {
		return
	}
	for i, segment := range amendment.PathSegments {
		if segment.EntityType == amendmententities.SegmentTypeEvent && segment.EntityID == eventID {
			amendment.PathSegments[i].Status = amendmententities.SegmentStatusResolved
			amendment.UpdatedAt = now
			return
		}
	}
}

func (uc DispatchUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc DispatchUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL > 0 {
		return uc.IdempotencyTTL
	}
	return 7 * 24 * time.Hour
}

func hashDispatchCommand(cmd DispatchOutcomeCommand) string {
	payload, _ := json.Marshal(map[string]any{
		"op":              "dispatch_outcome",
		"agenda_item_id":  strings.TrimSpace(cmd.AgendaItemID),
		"amendment_id":    strings.TrimSpace(cmd.AmendmentID),
		"result":          string(cmd.Result),
		"target_event_id": strings.TrimSpace(cmd.TargetEventID),
		"target_group_id": strings.TrimSpace(cmd.TargetGroupID),
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
