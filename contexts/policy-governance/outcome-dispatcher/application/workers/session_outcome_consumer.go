package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	application "concord/contexts/policy-governance/outcome-dispatcher/application"
	"concord/contexts/policy-governance/outcome-dispatcher/application/commands"
	"concord/contexts/policy-governance/outcome-dispatcher/ports"
)

const sessionClosedEventType = "voting.session_closed"

type sessionClosedPayload struct {
	SessionID     string `json:"session_id"`
	AgendaItemID  string `json:"agenda_item_id"`
	AmendmentID   string `json:"amendment_id"`
	EventID       string `json:"event_id"`
	Kind          string `json:"kind"`
	Result        string `json:"result"`
	QuorumReached bool   `json:"quorum_reached"`
}

// SessionOutcomeConsumer turns closed voting sessions into dispatched
// outcomes. The next hop comes from the amendment's stored route: the
// segment after the one matching the closed session's event.
type SessionOutcomeConsumer struct {
	Dispatch   commands.DispatchUseCase
	Amendments ports.AmendmentRepository
	Logger     *slog.Logger
}

func (c SessionOutcomeConsumer) Handle(ctx context.Context, envelope ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if envelope.EventType != sessionClosedEventType {
		return nil
	}

	var payload sessionClosedPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		logger.Error("session outcome decode failed",
			"event", "session_outcome_decode_failed",
			"module", "policy-governance/outcome-dispatcher",
			"layer", "worker",
			"envelope_id", envelope.EventID,
			"error", err.Error(),
		)
		return err
	}
	if strings.TrimSpace(payload.AgendaItemID) == "" {
		logger.Warn("session outcome skipped without agenda item",
			"event", "session_outcome_skipped",
			"module", "policy-governance/outcome-dispatcher",
			"layer", "worker",
			"session_id", payload.SessionID,
		)
		return nil
	}

	cmd := commands.DispatchOutcomeCommand{
		AgendaItemID: payload.AgendaItemID,
		AmendmentID:  payload.AmendmentID,
		EventID:      payload.EventID,
		TriggeredBy:  "voting-session:" + payload.SessionID,
		Result:       commands.Result(payload.Result),
	}
	if strings.TrimSpace(payload.AmendmentID) != "" {
		amendment, err := c.Amendments.GetAmendment(ctx, payload.AmendmentID)
		if err != nil {
			return err
		}
		cmd.AmendmentTitle = amendment.Title
		cmd.TargetEventID, cmd.TargetGroupID = nextHop(amendment, payload.EventID)
	}

	if _, err := c.Dispatch.DispatchOutcome(ctx, cmd); err != nil {
		logger.Error("session outcome dispatch failed",
			"event", "session_outcome_dispatch_failed",
			"module", "policy-governance/outcome-dispatcher",
			"layer", "worker",
			"session_id", payload.SessionID,
			"agenda_item_id", payload.AgendaItemID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// nextHop finds the route segment following the one the session was held at.
// A missing or final segment means the amendment has nowhere left to go.
func nextHop(amendment amendmententities.Amendment, eventID string) (targetEventID string, targetGroupID string) {
	if eventID == "" {
		return "", ""
	}
	for i, segment := range amendment.PathSegments {
		if segment.EntityType != amendmententities.SegmentTypeEvent || segment.EntityID != eventID {
			continue
		}
		if i+1 >= len(amendment.PathSegments) {
			return "", ""
		}
		next := amendment.PathSegments[i+1]
		if next.EntityType == amendmententities.SegmentTypeEvent {
			return next.EntityID, ""
		}
		return "", next.GroupID
	}
	return "", ""
}
