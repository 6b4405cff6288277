package httpadapter

import (
	"context"
	"log/slog"

	"concord/contexts/policy-governance/amendment-service/application/commands"
	"concord/contexts/policy-governance/amendment-service/application/queries"
	"concord/contexts/policy-governance/amendment-service/domain/entities"
	httptransport "concord/contexts/policy-governance/amendment-service/transport/http"
)

type Handler struct {
	Amendments commands.AmendmentUseCase
	Views      queries.AmendmentUseCase
	Logger     *slog.Logger
}

func (h Handler) SubmitAmendmentHandler(
	ctx context.Context,
	authorID string,
	idempotencyKey string,
	req httptransport.SubmitAmendmentRequest,
) (httptransport.AmendmentResponse, error) {
	result, err := h.Amendments.SubmitAmendment(ctx, commands.SubmitAmendmentCommand{
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		Body:           req.Body,
		AuthorID:       authorID,
		OwningGroupID:  req.OwningGroupID,
		TargetGroupID:  req.TargetGroupID,
		MemberGroupIDs: req.MemberGroupIDs,
	})
	if err != nil {
		return httptransport.AmendmentResponse{}, err
	}
	resp := amendmentResponse(result.Amendment)
	resp.Replayed = result.Replayed
	return resp, nil
}

func (h Handler) TransitionHandler(
	ctx context.Context,
	amendmentID string,
	actorID string,
	req httptransport.TransitionRequest,
) (httptransport.AmendmentResponse, error) {
	amendment, err := h.Amendments.Transition(ctx, commands.TransitionCommand{
		AmendmentID: amendmentID,
		Target:      entities.WorkflowStatus(req.Target),
		ActorID:     actorID,
	})
	if err != nil {
		return httptransport.AmendmentResponse{}, err
	}
	return amendmentResponse(amendment), nil
}

func (h Handler) GetAmendmentHandler(ctx context.Context, amendmentID string) (httptransport.AmendmentResponse, error) {
	view, err := h.Views.GetAmendment(ctx, amendmentID)
	if err != nil {
		return httptransport.AmendmentResponse{}, err
	}
	resp := amendmentResponse(view.Amendment)
	for _, target := range view.LegalTargets {
		resp.LegalTargets = append(resp.LegalTargets, string(target))
	}
	return resp, nil
}

func amendmentResponse(amendment entities.Amendment) httptransport.AmendmentResponse {
	segments := make([]httptransport.PathSegmentResponse, 0, len(amendment.PathSegments))
	for _, segment := range amendment.PathSegments {
		segments = append(segments, httptransport.PathSegmentResponse{
			EntityType: string(segment.EntityType),
			EntityID:   segment.EntityID,
			GroupID:    segment.GroupID,
			Status:     string(segment.Status),
		})
	}
	return httptransport.AmendmentResponse{
		AmendmentID:       amendment.AmendmentID,
		Title:             amendment.Title,
		AuthorID:          amendment.AuthorID,
		OwningGroupID:     amendment.OwningGroupID,
		TargetGroupID:     amendment.TargetGroupID,
		WorkflowStatus:    string(amendment.WorkflowStatus),
		PathStatus:        string(amendment.PathStatus),
		PathInvalidReason: amendment.PathInvalidReason,
		PendingForGroupID: amendment.PendingForGroupID,
		PathSegments:      segments,
	}
}
