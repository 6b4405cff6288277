package commands

import (
	"context"
	"log/slog"
	"strings"

	application "concord/contexts/policy-governance/group-network-service/application"
	"concord/contexts/policy-governance/group-network-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/group-network-service/domain/errors"
	"concord/contexts/policy-governance/group-network-service/ports"
)

type CreateRelationshipCommand struct {
	ParentGroupID string
	ChildGroupID  string
	Right         string
	ActorID       string
}

type WithdrawRelationshipCommand struct {
	RelationshipID string
	ActorID        string
}

// RelationshipUseCase maintains the relationship edges group administrators
// create and withdraw.
type RelationshipUseCase struct {
	Groups ports.GroupRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc RelationshipUseCase) CreateRelationship(ctx context.Context, cmd CreateRelationshipCommand) (entities.GroupRelationship, error) {
	logger := application.ResolveLogger(uc.Logger)
	parentID := strings.TrimSpace(cmd.ParentGroupID)
	childID := strings.TrimSpace(cmd.ChildGroupID)
	if parentID == "" || childID == "" || parentID == childID {
		return entities.GroupRelationship{}, domainerrors.ErrInvalidRelationshipInput
	}

	if _, err := uc.Groups.GetGroup(ctx, parentID); err != nil {
		return entities.GroupRelationship{}, err
	}
	if _, err := uc.Groups.GetGroup(ctx, childID); err != nil {
		return entities.GroupRelationship{}, err
	}
	if _, found, err := uc.Groups.GetRelationshipByEdge(ctx, parentID, childID); err != nil {
		return entities.GroupRelationship{}, err
	} else if found {
		return entities.GroupRelationship{}, domainerrors.ErrRelationshipExists
	}

	relationshipID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.GroupRelationship{}, err
	}
	relationship := entities.GroupRelationship{
		RelationshipID: relationshipID,
		ParentGroupID:  parentID,
		ChildGroupID:   childID,
		Right:          strings.TrimSpace(cmd.Right),
		CreatedAt:      uc.Clock.Now().UTC(),
	}
	if err := uc.Groups.SaveRelationship(ctx, relationship); err != nil {
		return entities.GroupRelationship{}, err
	}
	logger.Info("group relationship created",
		"event", "group_network_relationship_created",
		"module", "policy-governance/group-network-service",
		"layer", "application",
		"relationship_id", relationship.RelationshipID,
		"parent_group_id", parentID,
		"child_group_id", childID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return relationship, nil
}

func (uc RelationshipUseCase) WithdrawRelationship(ctx context.Context, cmd WithdrawRelationshipCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	relationshipID := strings.TrimSpace(cmd.RelationshipID)
	if relationshipID == "" {
		return domainerrors.ErrInvalidRelationshipInput
	}
	if err := uc.Groups.DeleteRelationship(ctx, relationshipID); err != nil {
		return err
	}
	logger.Info("group relationship withdrawn",
		"event", "group_network_relationship_withdrawn",
		"module", "policy-governance/group-network-service",
		"layer", "application",
		"relationship_id", relationshipID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}
