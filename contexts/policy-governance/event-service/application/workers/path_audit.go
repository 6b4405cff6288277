package workers

import (
	"context"
	"log/slog"

	application "concord/contexts/policy-governance/event-service/application"
	"concord/contexts/policy-governance/event-service/application/queries"
	"concord/contexts/policy-governance/event-service/ports"
)

// PathAudit periodically re-checks every non-terminal amendment route and
// flags the ones referencing dead segments. It never advances or repairs an
// amendment; flagged paths wait for recovery or manual action.
type PathAudit struct {
	Amendments ports.AmendmentPathStore
	Validation queries.ValidationUseCase
	Logger     *slog.Logger
}

// RunOnce audits one full pass. Individual flagging failures stop the pass
// so the next cycle re-examines the remainder.
func (a PathAudit) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(a.Logger)

	amendments, err := a.Amendments.ListNonTerminalAmendments(ctx)
	if err != nil {
		logger.Error("path audit list failed",
			"event", "event_path_audit_list_failed",
			"module", "policy-governance/event-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	flagged := 0
	for _, amendment := range amendments {
		issues, err := a.Validation.ValidateAmendmentPath(ctx, amendment.Segments)
		if err != nil {
			logger.Error("path audit validation failed",
				"event", "event_path_audit_validate_failed",
				"module", "policy-governance/event-service",
				"layer", "worker",
				"amendment_id", amendment.AmendmentID,
				"error", err.Error(),
			)
			return err
		}
		if len(issues) == 0 || !amendment.PathValid {
			continue
		}
		if err := a.Amendments.MarkPathInvalid(ctx, amendment.AmendmentID, issues[0].Reason); err != nil {
			logger.Error("path audit flag failed",
				"event", "event_path_audit_flag_failed",
				"module", "policy-governance/event-service",
				"layer", "worker",
				"amendment_id", amendment.AmendmentID,
				"error", err.Error(),
			)
			return err
		}
		flagged++
	}

	logger.Info("path audit cycle completed",
		"event", "event_path_audit_completed",
		"module", "policy-governance/event-service",
		"layer", "worker",
		"checked", len(amendments),
		"flagged", flagged,
	)
	return nil
}
