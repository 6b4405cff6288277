package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"concord/contexts/policy-governance/group-network-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/group-network-service/domain/errors"
	"concord/contexts/policy-governance/group-network-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveGroup(ctx context.Context, group entities.Group) error {
	row := groupModel{
		ID:        strings.TrimSpace(group.GroupID),
		Name:      strings.TrimSpace(group.Name),
		CreatedAt: group.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{"name": row.Name}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("group_network_repo_save_group_failed", create.Error,
			"group_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetGroup(ctx context.Context, groupID string) (entities.Group, error) {
	var row groupModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(groupID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Group{}, domainerrors.ErrGroupNotFound
		}
		return entities.Group{}, r.logError("group_network_repo_get_group_failed", err,
			"group_id", strings.TrimSpace(groupID),
		)
	}
	return entities.Group{GroupID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt.UTC()}, nil
}

func (r *Repository) ListRelationships(ctx context.Context) ([]entities.GroupRelationship, error) {
	var rows []relationshipModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("group_network_repo_list_relationships_failed", err)
	}
	relationships := make([]entities.GroupRelationship, 0, len(rows))
	for _, row := range rows {
		relationships = append(relationships, row.toEntity())
	}
	return relationships, nil
}

func (r *Repository) GetRelationshipByEdge(ctx context.Context, parentGroupID string, childGroupID string) (entities.GroupRelationship, bool, error) {
	var row relationshipModel
	err := r.db.WithContext(ctx).
		Where("parent_group_id = ?", strings.TrimSpace(parentGroupID)).
		Where("child_group_id = ?", strings.TrimSpace(childGroupID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.GroupRelationship{}, false, nil
		}
		return entities.GroupRelationship{}, false, r.logError("group_network_repo_get_edge_failed", err,
			"parent_group_id", strings.TrimSpace(parentGroupID),
			"child_group_id", strings.TrimSpace(childGroupID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveRelationship(ctx context.Context, relationship entities.GroupRelationship) error {
	row := relationshipModel{
		ID:            strings.TrimSpace(relationship.RelationshipID),
		ParentGroupID: strings.TrimSpace(relationship.ParentGroupID),
		ChildGroupID:  strings.TrimSpace(relationship.ChildGroupID),
		Right:         strings.TrimSpace(relationship.Right),
		CreatedAt:     relationship.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrRelationshipExists
		}
		return r.logError("group_network_repo_save_relationship_failed", create.Error,
			"relationship_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) DeleteRelationship(ctx context.Context, relationshipID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(relationshipID)).
		Delete(&relationshipModel{})
	if result.Error != nil {
		return r.logError("group_network_repo_delete_relationship_failed", result.Error,
			"relationship_id", strings.TrimSpace(relationshipID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRelationshipNotFound
	}
	return nil
}

// NextEventForGroup reads the events table owned by the event service as a
// projection; only active future events anchor route segments.
func (r *Repository) NextEventForGroup(ctx context.Context, groupID string, after time.Time) (ports.EventRef, bool, error) {
	var row eventProjectionModel
	err := r.db.WithContext(ctx).
		Where("group_id = ?", strings.TrimSpace(groupID)).
		Where("status = ?", "active").
		Where("starts_at > ?", after.UTC()).
		Order("starts_at ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.EventRef{}, false, nil
		}
		return ports.EventRef{}, false, r.logError("group_network_repo_next_event_failed", err,
			"group_id", strings.TrimSpace(groupID),
		)
	}
	return ports.EventRef{
		EventID:  row.ID,
		GroupID:  row.GroupID,
		StartsAt: row.StartsAt.UTC(),
	}, true, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "policy-governance/group-network-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("group network repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type groupModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (groupModel) TableName() string {
	return "groups"
}

type relationshipModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	ParentGroupID string    `gorm:"column:parent_group_id;uniqueIndex:idx_relationships_edge"`
	ChildGroupID  string    `gorm:"column:child_group_id;uniqueIndex:idx_relationships_edge"`
	Right         string    `gorm:"column:capability_right"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (relationshipModel) TableName() string {
	return "group_relationships"
}

func (m relationshipModel) toEntity() entities.GroupRelationship {
	return entities.GroupRelationship{
		RelationshipID: m.ID,
		ParentGroupID:  m.ParentGroupID,
		ChildGroupID:   m.ChildGroupID,
		Right:          m.Right,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type eventProjectionModel struct {
	ID       string    `gorm:"column:id;primaryKey"`
	GroupID  string    `gorm:"column:group_id"`
	Status   string    `gorm:"column:status"`
	StartsAt time.Time `gorm:"column:starts_at"`
}

func (eventProjectionModel) TableName() string {
	return "events"
}
