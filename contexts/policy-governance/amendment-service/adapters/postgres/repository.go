package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	"concord/contexts/policy-governance/amendment-service/ports"

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

func (r *Repository) SaveAmendment(ctx context.Context, amendment entities.Amendment) error {
	row, err := amendmentModelFromEntity(amendment)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("amendment_repo_save_failed", create.Error,
			"amendment_id", strings.TrimSpace(amendment.AmendmentID),
		)
	}
	return nil
}

func (r *Repository) GetAmendment(ctx context.Context, amendmentID string) (entities.Amendment, error) {
	var row amendmentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(amendmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Amendment{}, domainerrors.ErrAmendmentNotFound
		}
		return entities.Amendment{}, r.logError("amendment_repo_get_failed", err,
			"amendment_id", strings.TrimSpace(amendmentID),
		)
	}
	return row.toEntity()
}

func (r *Repository) UpdateAmendment(ctx context.Context, amendment entities.Amendment) error {
	row, err := amendmentModelFromEntity(amendment)
	if err != nil {
		return err
	}
	update := r.db.WithContext(ctx).
		Model(&amendmentModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"workflow_status":      row.WorkflowStatus,
			"path_segments":        row.PathSegments,
			"path_status":          row.PathStatus,
			"path_invalid_reason":  row.PathInvalidReason,
			"pending_for_group_id": row.PendingForGroupID,
			"status_changed_at":    row.StatusChangedAt,
			"decided_at":           row.DecidedAt,
			"updated_at":           row.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("amendment_repo_update_failed", update.Error,
			"amendment_id", row.ID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrAmendmentNotFound
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		Where("expires_at > ?", now).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("amendment_repo_idempotency_get_failed", err,
			"idempotency_key", strings.TrimSpace(key),
		)
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		EntityID:    row.EntityID,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: strings.TrimSpace(record.RequestHash),
		EntityID:    strings.TrimSpace(record.EntityID),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("amendment_repo_idempotency_put_failed", create.Error, "idempotency_key", row.Key)
	}
	if create.RowsAffected > 0 {
		return nil
	}
	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).Error; err != nil {
		return r.logError("amendment_repo_idempotency_load_existing_failed", err, "idempotency_key", row.Key)
	}
	if existing.RequestHash != row.RequestHash || existing.EntityID != row.EntityID {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "policy-governance/amendment-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("amendment repository operation failed", fields...)
	return err
}

type amendmentModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	Title             string     `gorm:"column:title"`
	Body              string     `gorm:"column:body"`
	AuthorID          string     `gorm:"column:author_id"`
	OwningGroupID     string     `gorm:"column:owning_group_id"`
	TargetGroupID     string     `gorm:"column:target_group_id"`
	WorkflowStatus    string     `gorm:"column:workflow_status"`
	PathSegments      []byte     `gorm:"column:path_segments;type:jsonb"`
	PathStatus        string     `gorm:"column:path_status"`
	PathInvalidReason string     `gorm:"column:path_invalid_reason"`
	PendingForGroupID string     `gorm:"column:pending_for_group_id"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
	StatusChangedAt   time.Time  `gorm:"column:status_changed_at"`
	DecidedAt         *time.Time `gorm:"column:decided_at"`
}

func (amendmentModel) TableName() string {
	return "amendments"
}

func amendmentModelFromEntity(amendment entities.Amendment) (amendmentModel, error) {
	segments, err := json.Marshal(amendment.PathSegments)
	if err != nil {
		return amendmentModel{}, err
	}
	return amendmentModel{
		ID:                strings.TrimSpace(amendment.AmendmentID),
		Title:             amendment.Title,
		Body:              amendment.Body,
		AuthorID:          strings.TrimSpace(amendment.AuthorID),
		OwningGroupID:     strings.TrimSpace(amendment.OwningGroupID),
		TargetGroupID:     strings.TrimSpace(amendment.TargetGroupID),
		WorkflowStatus:    string(amendment.WorkflowStatus),
		PathSegments:      segments,
		PathStatus:        string(amendment.PathStatus),
		PathInvalidReason: amendment.PathInvalidReason,
		PendingForGroupID: strings.TrimSpace(amendment.PendingForGroupID),
		CreatedAt:         amendment.CreatedAt.UTC(),
		UpdatedAt:         amendment.UpdatedAt.UTC(),
		StatusChangedAt:   amendment.StatusChangedAt.UTC(),
		DecidedAt:         amendment.DecidedAt,
	}, nil
}

func (m amendmentModel) toEntity() (entities.Amendment, error) {
	var segments []entities.PathSegment
	if len(m.PathSegments) > 0 {
		if err := json.Unmarshal(m.PathSegments, &segments); err != nil {
			return entities.Amendment{}, err
		}
	}
	return entities.Amendment{
		AmendmentID:       m.ID,
		Title:             m.Title,
		Body:              m.Body,
		AuthorID:          m.AuthorID,
		OwningGroupID:     m.OwningGroupID,
		TargetGroupID:     m.TargetGroupID,
		WorkflowStatus:    entities.WorkflowStatus(m.WorkflowStatus),
		PathSegments:      segments,
		PathStatus:        entities.PathStatus(m.PathStatus),
		PathInvalidReason: m.PathInvalidReason,
		PendingForGroupID: m.PendingForGroupID,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
		StatusChangedAt:   m.StatusChangedAt.UTC(),
		DecidedAt:         m.DecidedAt,
	}, nil
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	EntityID    string    `gorm:"column:entity_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "amendment_idempotency"
}
