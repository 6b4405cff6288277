package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/policy-governance/group-network-service/application"
	"concord/contexts/policy-governance/group-network-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/group-network-service/domain/errors"
	"concord/contexts/policy-governance/group-network-service/domain/graph"
	"concord/contexts/policy-governance/group-network-service/ports"
)

// RouteUseCase answers traversal queries over a per-call snapshot of the
// relationship graph. No staleness guarantee is made beyond that snapshot.
type RouteUseCase struct {
	Groups ports.GroupRepository
	Events ports.EventDirectory
	Clock  ports.Clock
	Logger *slog.Logger
}

// ShortestRoute returns the minimal-hop route from any of the origin groups
// to the target.
func (uc RouteUseCase) ShortestRoute(ctx context.Context, originGroupIDs []string, targetGroupID string) ([]entities.PathStep, error) {
	origins, target, err := uc.normalize(ctx, originGroupIDs, targetGroupID)
	if err != nil {
		return nil, err
	}

	relationships, err := uc.Groups.ListRelationships(ctx)
	if err != nil {
		return nil, err
	}
	steps, found := graph.New(relationships).ShortestPath(origins, target)
	if !found {
		return nil, domainerrors.ErrNoRouteFound
	}
	return steps, nil
}

// AllRoutes enumerates alternate routes up to maxDepth hops for diagnostic
// display. An empty result is not an error here; callers render it as "no
// alternatives".
func (uc RouteUseCase) AllRoutes(ctx context.Context, originGroupIDs []string, targetGroupID string, maxDepth int) ([][]entities.PathStep, error) {
	origins, target, err := uc.normalize(ctx, originGroupIDs, targetGroupID)
	if err != nil {
		return nil, err
	}

	relationships, err := uc.Groups.ListRelationships(ctx)
	if err != nil {
		return nil, err
	}
	return graph.New(relationships).AllPaths(origins, target, maxDepth), nil
}

// BuildRoute converts the shortest route into storage segments, pairing each
// group with its nearest future event where one is scheduled so the resulting
// path references concrete targets where possible.
func (uc RouteUseCase) BuildRoute(ctx context.Context, originGroupIDs []string, targetGroupID string) ([]entities.RouteSegment, error) {
	logger := application.ResolveLogger(uc.Logger)
	steps, err := uc.ShortestRoute(ctx, originGroupIDs, targetGroupID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	segments := make([]entities.RouteSegment, 0, len(steps))
	for _, step := range steps {
		ref, found, err := uc.Events.NextEventForGroup(ctx, step.GroupID, now)
		if err != nil {
			return nil, err
		}
		if found {
			segments = append(segments, entities.RouteSegment{
				EntityType: entities.SegmentTypeEvent,
				EntityID:   ref.EventID,
				GroupID:    step.GroupID,
				Status:     entities.SegmentStatusPending,
			})
			continue
		}
		segments = append(segments, entities.RouteSegment{
			EntityType: entities.SegmentTypeGroup,
			EntityID:   step.GroupID,
			GroupID:    step.GroupID,
			Status:     entities.SegmentStatusPending,
		})
	}

	logger.Info("amendment route built",
		"event", "group_network_route_built",
		"module", "policy-governance/group-network-service",
		"layer", "application",
		"target_group_id", targetGroupID,
		"hops", len(segments),
	)
	return segments, nil
}

func (uc RouteUseCase) normalize(ctx context.Context, originGroupIDs []string, targetGroupID string) ([]string, string, error) {
	target := strings.TrimSpace(targetGroupID)
	var origins []string
	for _, id := range originGroupIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if target == "" || len(origins) == 0 {
		return nil, "", domainerrors.ErrInvalidGroupInput
	}
	if _, err := uc.Groups.GetGroup(ctx, target); err != nil {
		return nil, "", err
	}
	return origins, target, nil
}

func (uc RouteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
