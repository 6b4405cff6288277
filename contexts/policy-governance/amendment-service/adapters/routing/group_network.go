package routingadapter

import (
	"context"

	"concord/contexts/policy-governance/amendment-service/ports"
	groupnetworkqueries "concord/contexts/policy-governance/group-network-service/application/queries"
)

// GroupNetworkRouteBuilder adapts the group network route query to the
// submission port so this module never touches that context's domain types.
type GroupNetworkRouteBuilder struct {
	Routes groupnetworkqueries.RouteUseCase
}

func (b GroupNetworkRouteBuilder) BuildRoute(ctx context.Context, originGroupIDs []string, targetGroupID string) ([]ports.RouteSegment, error) {
	segments, err := b.Routes.BuildRoute(ctx, originGroupIDs, targetGroupID)
	if err != nil {
		return nil, err
	}
	mapped := make([]ports.RouteSegment, 0, len(segments))
	for _, segment := range segments {
		mapped = append(mapped, ports.RouteSegment{
			EntityType: string(segment.EntityType),
			EntityID:   segment.EntityID,
			GroupID:    segment.GroupID,
		})
	}
	return mapped, nil
}
