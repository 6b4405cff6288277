package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "concord/contexts/policy-governance/outcome-dispatcher/application"
	"concord/contexts/policy-governance/outcome-dispatcher/ports"
)

// OutboxRelay publishes persisted outcome notifications to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after broker publish succeeds. It stops on the first failure
// so the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outcome outbox list failed",
			"event", "outcome_outbox_list_failed",
			"module", "policy-governance/outcome-dispatcher",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("outcome outbox decode failed",
				"event", "outcome_outbox_decode_failed",
				"module", "policy-governance/outcome-dispatcher",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := envelope.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outcome outbox publish failed",
				"event", "outcome_outbox_publish_failed",
				"module", "policy-governance/outcome-dispatcher",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("outcome outbox mark published failed",
				"event", "outcome_outbox_mark_published_failed",
				"module", "policy-governance/outcome-dispatcher",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("outcome outbox relay cycle completed",
		"event", "outcome_outbox_relay_completed",
		"module", "policy-governance/outcome-dispatcher",
		"layer", "worker",
		"published", len(pending),
	)
	return nil
}
