package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/policy-governance/amendment-service/application"
	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	"concord/contexts/policy-governance/amendment-service/domain/workflow"
	"concord/contexts/policy-governance/amendment-service/ports"
)

// SubmitAmendmentCommand creates a new amendment and plans its route from
// the author's member groups to the target group.
type SubmitAmendmentCommand struct {
	IdempotencyKey string
	Title          string
	Body           string
	AuthorID       string
	OwningGroupID  string
	TargetGroupID  string
	MemberGroupIDs []string
}

type SubmitAmendmentResult struct {
	Amendment entities.Amendment
	Replayed  bool
}

// TransitionCommand requests a workflow move for an amendment.
type TransitionCommand struct {
	AmendmentID string
	Target      entities.WorkflowStatus
	ActorID     string
}

// AmendmentUseCase owns submission and the editing-phase transitions the
// product layer exposes directly. Vote-driven moves come in through the
// outcome dispatcher instead.
type AmendmentUseCase struct {
	Amendments     ports.AmendmentRepository
	Routes         ports.RouteBuilder
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc AmendmentUseCase) SubmitAmendment(ctx context.Context, cmd SubmitAmendmentCommand) (SubmitAmendmentResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	title := strings.TrimSpace(cmd.Title)
	authorID := strings.TrimSpace(cmd.AuthorID)
	owningGroupID := strings.TrimSpace(cmd.OwningGroupID)
	targetGroupID := strings.TrimSpace(cmd.TargetGroupID)
	if title == "" || authorID == "" || owningGroupID == "" || targetGroupID == "" {
		return SubmitAmendmentResult{}, domainerrors.ErrInvalidAmendmentInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return SubmitAmendmentResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashSubmitCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return SubmitAmendmentResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return SubmitAmendmentResult{}, domainerrors.ErrIdempotencyConflict
		}
		amendment, err := uc.Amendments.GetAmendment(ctx, record.EntityID)
		if err != nil {
			return SubmitAmendmentResult{}, err
		}
		return SubmitAmendmentResult{Amendment: amendment, Replayed: true}, nil
	}

	origins := cmd.MemberGroupIDs
	if len(origins) == 0 {
		origins = []string{owningGroupID}
	}
	route, err := uc.Routes.BuildRoute(ctx, origins, targetGroupID)
	if err != nil {
		return SubmitAmendmentResult{}, err
	}

	amendmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitAmendmentResult{}, err
	}
	segments := make([]entities.PathSegment, 0, len(route))
	for _, hop := range route {
		segments = append(segments, entities.PathSegment{
			EntityType: entities.SegmentType(hop.EntityType),
			EntityID:   hop.EntityID,
			GroupID:    hop.GroupID,
			Status:     entities.SegmentStatusPending,
		})
	}
	amendment := entities.Amendment{
		AmendmentID:     amendmentID,
		Title:           title,
		Body:            cmd.Body,
		AuthorID:        authorID,
		OwningGroupID:   owningGroupID,
		TargetGroupID:   targetGroupID,
		WorkflowStatus:  entities.StatusCollaborativeEditing,
		PathSegments:    segments,
		PathStatus:      entities.PathStatusValid,
		CreatedAt:       now,
		UpdatedAt:       now,
		StatusChangedAt: now,
	}
	if err := uc.Amendments.SaveAmendment(ctx, amendment); err != nil {
		return SubmitAmendmentResult{}, err
	}
	if err := uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash: requestHash,
		EntityID:    amendment.AmendmentID,
		ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
	}); err != nil {
		return SubmitAmendmentResult{}, err
	}

	logger.Info("amendment submitted",
		"event", "amendment_submitted",
		"module", "policy-governance/amendment-service",
		"layer", "application",
		"amendment_id", amendment.AmendmentID,
		"target_group_id", targetGroupID,
		"hops", len(segments),
	)
	return SubmitAmendmentResult{Amendment: amendment}, nil
}

func (uc AmendmentUseCase) Transition(ctx context.Context, cmd TransitionCommand) (entities.Amendment, error) {
	logger := application.ResolveLogger(uc.Logger)
	amendmentID := strings.TrimSpace(cmd.AmendmentID)
	if amendmentID == "" || !entities.IsSupportedWorkflowStatus(cmd.Target) {
		return entities.Amendment{}, domainerrors.ErrInvalidAmendmentInput
	}

	amendment, err := uc.Amendments.GetAmendment(ctx, amendmentID)
	if err != nil {
		return entities.Amendment{}, err
	}
	from := amendment.WorkflowStatus
	if err := workflow.Apply(&amendment, cmd.Target, uc.now()); err != nil {
		logger.Warn("workflow transition denied",
			"event", "amendment_transition_denied",
			"module", "policy-governance/amendment-service",
			"layer", "application",
			"amendment_id", amendment.AmendmentID,
			"from", string(from),
			"to", string(cmd.Target),
		)
		return entities.Amendment{}, err
	}
	if err := uc.Amendments.UpdateAmendment(ctx, amendment); err != nil {
		return entities.Amendment{}, err
	}

	logger.Info("workflow transition applied",
		"event", "amendment_transition_applied",
		"module", "policy-governance/amendment-service",
		"layer", "application",
		"amendment_id", amendment.AmendmentID,
		"from", string(from),
		"to", string(amendment.WorkflowStatus),
	)
	return amendment, nil
}

func (uc AmendmentUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc AmendmentUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL > 0 {
		return uc.IdempotencyTTL
	}
	return 24 * time.Hour
}

func hashSubmitCommand(cmd SubmitAmendmentCommand) string {
	payload, _ := json.Marshal(map[string]any{
		"op":              "submit_amendment",
		"title":           strings.TrimSpace(cmd.Title),
		"author_id":       strings.TrimSpace(cmd.AuthorID),
		"owning_group_id": strings.TrimSpace(cmd.OwningGroupID),
		"target_group_id": strings.TrimSpace(cmd.TargetGroupID),
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
