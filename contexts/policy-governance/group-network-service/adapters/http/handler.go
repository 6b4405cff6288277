package httpadapter

import (
	"context"
	"log/slog"

	"concord/contexts/policy-governance/group-network-service/application/commands"
	"concord/contexts/policy-governance/group-network-service/application/queries"
	"concord/contexts/policy-governance/group-network-service/domain/entities"
	httptransport "concord/contexts/policy-governance/group-network-service/transport/http"
)

type Handler struct {
	Routes        queries.RouteUseCase
	Relationships commands.RelationshipUseCase
	Logger        *slog.Logger
}

func (h Handler) ShortestRouteHandler(ctx context.Context, req httptransport.RouteRequest) (httptransport.RouteResponse, error) {
	steps, err := h.Routes.ShortestRoute(ctx, req.OriginGroupIDs, req.TargetGroupID)
	if err != nil {
		return httptransport.RouteResponse{}, err
	}
	return httptransport.RouteResponse{Steps: mapSteps(steps)}, nil
}

func (h Handler) AllRoutesHandler(ctx context.Context, req httptransport.RouteRequest) (httptransport.AllRoutesResponse, error) {
	routes, err := h.Routes.AllRoutes(ctx, req.OriginGroupIDs, req.TargetGroupID, req.MaxDepth)
	if err != nil {
		return httptransport.AllRoutesResponse{}, err
	}
	resp := httptransport.AllRoutesResponse{}
	for _, route := range routes {
		resp.Routes = append(resp.Routes, mapSteps(route))
	}
	return resp, nil
}

func (h Handler) BuildRouteHandler(ctx context.Context, req httptransport.RouteRequest) (httptransport.BuildRouteResponse, error) {
	segments, err := h.Routes.BuildRoute(ctx, req.OriginGroupIDs, req.TargetGroupID)
	if err != nil {
		return httptransport.BuildRouteResponse{}, err
	}
	resp := httptransport.BuildRouteResponse{}
	for _, segment := range segments {
		resp.Segments = append(resp.Segments, httptransport.RouteSegmentResponse{
			EntityType: string(segment.EntityType),
			EntityID:   segment.EntityID,
			GroupID:    segment.GroupID,
			Status:     string(segment.Status),
		})
	}
	return resp, nil
}

func (h Handler) CreateRelationshipHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateRelationshipRequest,
) (httptransport.RelationshipResponse, error) {
	relationship, err := h.Relationships.CreateRelationship(ctx, commands.CreateRelationshipCommand{
		ParentGroupID: req.ParentGroupID,
		ChildGroupID:  req.ChildGroupID,
		Right:         req.Right,
		ActorID:       actorID,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return httptransport.RelationshipResponse{
		RelationshipID: relationship.RelationshipID,
		ParentGroupID:  relationship.ParentGroupID,
		ChildGroupID:   relationship.ChildGroupID,
		Right:          relationship.Right,
	}, nil
}

func (h Handler) WithdrawRelationshipHandler(ctx context.Context, relationshipID string, actorID string) error {
	return h.Relationships.WithdrawRelationship(ctx, commands.WithdrawRelationshipCommand{
		RelationshipID: relationshipID,
		ActorID:        actorID,
	})
}

func mapSteps(steps []entities.PathStep) []httptransport.PathStepResponse {
	mapped := make([]httptransport.PathStepResponse, 0, len(steps))
	for _, step := range steps {
		mapped = append(mapped, httptransport.PathStepResponse{
			GroupID:  step.GroupID,
			Relation: string(step.Relation),
			Distance: step.Distance,
		})
	}
	return mapped
}
