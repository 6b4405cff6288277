package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"concord/contexts/policy-governance/event-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/event-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) SaveEvent(ctx context.Context, event entities.Event) error {
	row := eventModelFromEntity(event)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("event_repo_save_event_failed", create.Error,
			"event_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, eventID string) (entities.Event, error) {
	var row eventModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(eventID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Event{}, domainerrors.ErrEventNotFound
		}
		return entities.Event{}, r.logError("event_repo_get_event_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateEvent(ctx context.Context, event entities.Event) error {
	row := eventModelFromEntity(event)
	update := r.db.WithContext(ctx).
		Model(&eventModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"status":       row.Status,
			"cancelled_at": row.CancelledAt,
			"updated_at":   row.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("event_repo_update_event_failed", update.Error,
			"event_id", row.ID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrEventNotFound
	}
	return nil
}

func (r *Repository) ListEventsByGroup(ctx context.Context, groupID string) ([]entities.Event, error) {
	var rows []eventModel
	if err := r.db.WithContext(ctx).
		Where("owning_group_id = ?", strings.TrimSpace(groupID)).
		Order("starts_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("event_repo_list_events_failed", err,
			"group_id", strings.TrimSpace(groupID),
		)
	}
	events := make([]entities.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEntity())
	}
	return events, nil
}

func (r *Repository) SaveAgendaItem(ctx context.Context, item entities.AgendaItem) error {
	row := agendaItemModelFromEntity(item)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("event_repo_save_agenda_item_failed", create.Error,
			"agenda_item_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetAgendaItem(ctx context.Context, agendaItemID string) (entities.AgendaItem, error) {
	var row agendaItemModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(agendaItemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AgendaItem{}, domainerrors.ErrAgendaItemNotFound
		}
		return entities.AgendaItem{}, r.logError("event_repo_get_agenda_item_failed", err,
			"agenda_item_id", strings.TrimSpace(agendaItemID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateAgendaItem(ctx context.Context, item entities.AgendaItem) error {
	row := agendaItemModelFromEntity(item)
	update := r.db.WithContext(ctx).
		Model(&agendaItemModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"event_id":        row.EventID,
			"status":          row.Status,
			"item_order":      row.Order,
			"outcome":         row.Outcome,
			"requires_revote": row.RequiresRevote,
			"activated_at":    row.ActivatedAt,
			"completed_at":    row.CompletedAt,
			"archived_at":     row.ArchivedAt,
			"updated_at":      row.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("event_repo_update_agenda_item_failed", update.Error,
			"agenda_item_id", row.ID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrAgendaItemNotFound
	}
	return nil
}

func (r *Repository) ListAgendaItemsByEvent(ctx context.Context, eventID string) ([]entities.AgendaItem, error) {
	var rows []agendaItemModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("item_order ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("event_repo_list_agenda_items_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	items := make([]entities.AgendaItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MaxOrderForEvent(ctx context.Context, eventID string) (int, error) {
	var maxOrder int
	err := r.db.WithContext(ctx).
		Model(&agendaItemModel{}).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Select("COALESCE(MAX(item_order), 0)").
		Scan(&maxOrder).
		Error
	if err != nil {
		return 0, r.logError("event_repo_max_order_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return maxOrder, nil
}

func (r *Repository) ListAmendmentsWithEventSegment(ctx context.Context, eventID string) ([]ports.AmendmentRef, error) {
	refs, err := r.listAmendmentRefs(ctx)
	if err != nil {
		return nil, err
	}
	var matched []ports.AmendmentRef
	for _, ref := range refs {
		for _, segment := range ref.Segments {
			if segment.EntityType == "event" && segment.EntityID == strings.TrimSpace(eventID) {
				matched = append(matched, ref)
				break
			}
		}
	}
	return matched, nil
}

func (r *Repository) ListNonTerminalAmendments(ctx context.Context) ([]ports.AmendmentRef, error) {
	return r.listAmendmentRefs(ctx)
}

func (r *Repository) ReplaceSegmentEvent(ctx context.Context, amendmentID string, segmentIndex int, newEventID string) error {
	var row amendmentPathModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(amendmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrAmendmentNotFound
		}
		return r.logError("event_repo_load_amendment_failed", err,
			"amendment_id", strings.TrimSpace(amendmentID),
		)
	}
	segments, err := row.segments()
	if err != nil {
		return err
	}
	if segmentIndex < 0 || segmentIndex >= len(segments) {
		return domainerrors.ErrAmendmentNotFound
	}
	segments[segmentIndex].EntityID = strings.TrimSpace(newEventID)
	payload, err := json.Marshal(segments)
	if err != nil {
		return err
	}
	update := r.db.WithContext(ctx).
		Model(&amendmentPathModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"path_segments": payload,
			"updated_at":    time.Now().UTC(),
		})
	if update.Error != nil {
		return r.logError("event_repo_replace_segment_failed", update.Error,
			"amendment_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) MarkPathInvalid(ctx context.Context, amendmentID string, reason string) error {
	update := r.db.WithContext(ctx).
		Model(&amendmentPathModel{}).
		Where("id = ?", strings.TrimSpace(amendmentID)).
		Updates(map[string]any{
			"path_status":         "invalid",
			"path_invalid_reason": reason,
			"updated_at":          time.Now().UTC(),
		})
	if update.Error != nil {
		return r.logError("event_repo_mark_path_invalid_failed", update.Error,
			"amendment_id", strings.TrimSpace(amendmentID),
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrAmendmentNotFound
	}
	return nil
}

func (r *Repository) GroupExists(ctx context.Context, groupID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("groups").
		Where("id = ?", strings.TrimSpace(groupID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("event_repo_group_exists_failed", err,
			"group_id", strings.TrimSpace(groupID),
		)
	}
	return count > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("event_repo_append_outbox_failed", create.Error,
			"outbox_id", row.OutboxID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("event_repo_list_outbox_failed", err)
	}
	records := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ports.OutboxRecord{
			OutboxID:    row.OutboxID,
			EventType:   row.EventType,
			Payload:     row.Payload,
			PublishedAt: row.PublishedAt,
		})
	}
	return records, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("event_repo_mark_outbox_published_failed", update.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) listAmendmentRefs(ctx context.Context) ([]ports.AmendmentRef, error) {
	var rows []amendmentPathModel
	if err := r.db.WithContext(ctx).
		Where("workflow_status NOT IN ?", []string{"passed", "rejected"}).
		Find(&rows).Error; err != nil {
		return nil, r.logError("event_repo_list_amendments_failed", err)
	}
	refs := make([]ports.AmendmentRef, 0, len(rows))
	for _, row := range rows {
		segments, err := row.segments()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ports.AmendmentRef{
			AmendmentID: row.ID,
			Terminal:    false,
			PathValid:   row.PathStatus == "valid",
			Segments:    segments,
		})
	}
	return refs, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "policy-governance/event-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("event repository operation failed", fields...)
	return err
}

type eventModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	OwningGroupID string     `gorm:"column:owning_group_id"`
	Title         string     `gorm:"column:title"`
	StartsAt      time.Time  `gorm:"column:starts_at"`
	Status        string     `gorm:"column:status"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (eventModel) TableName() string {
	return "events"
}

func eventModelFromEntity(event entities.Event) eventModel {
	return eventModel{
		ID:            strings.TrimSpace(event.EventID),
		OwningGroupID: strings.TrimSpace(event.OwningGroupID),
		Title:         event.Title,
		StartsAt:      event.StartsAt.UTC(),
		Status:        string(event.Status),
		CreatedAt:     event.CreatedAt.UTC(),
		UpdatedAt:     event.UpdatedAt.UTC(),
		CancelledAt:   event.CancelledAt,
	}
}

func (m eventModel) toEntity() entities.Event {
	return entities.Event{
		EventID:       m.ID,
		OwningGroupID: m.OwningGroupID,
		Title:         m.Title,
		StartsAt:      m.StartsAt.UTC(),
		Status:        entities.EventStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
		CancelledAt:   m.CancelledAt,
	}
}

type agendaItemModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	EventID             string     `gorm:"column:event_id;index:idx_agenda_items_event"`
	Title               string     `gorm:"column:title"`
	Type                string     `gorm:"column:type"`
	Status              string     `gorm:"column:status"`
	Order               int        `gorm:"column:item_order"`
	Outcome             string     `gorm:"column:outcome"`
	RequiresRevote      bool       `gorm:"column:requires_revote"`
	AmendmentID         string     `gorm:"column:amendment_id"`
	PositionID          string     `gorm:"column:position_id"`
	ScheduledElectionID string     `gorm:"column:scheduled_election_id"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
	ActivatedAt         *time.Time `gorm:"column:activated_at"`
	CompletedAt         *time.Time `gorm:"column:completed_at"`
	ArchivedAt          *time.Time `gorm:"column:archived_at"`
}

func (agendaItemModel) TableName() string {
	return "agenda_items"
}

func agendaItemModelFromEntity(item entities.AgendaItem) agendaItemModel {
	return agendaItemModel{
		ID:                  strings.TrimSpace(item.AgendaItemID),
		EventID:             strings.TrimSpace(item.EventID),
		Title:               item.Title,
		Type:                string(item.Type),
		Status:              string(item.Status),
		Order:               item.Order,
		Outcome:             string(item.Outcome),
		RequiresRevote:      item.RequiresRevote,
		AmendmentID:         strings.TrimSpace(item.AmendmentID),
		PositionID:          strings.TrimSpace(item.PositionID),
		ScheduledElectionID: strings.TrimSpace(item.ScheduledElectionID),
		CreatedAt:           item.CreatedAt.UTC(),
		UpdatedAt:           item.UpdatedAt.UTC(),
		ActivatedAt:         item.ActivatedAt,
		CompletedAt:         item.CompletedAt,
		ArchivedAt:          item.ArchivedAt,
	}
}

func (m agendaItemModel) toEntity() entities.AgendaItem {
	return entities.AgendaItem{
		AgendaItemID:        m.ID,
		EventID:             m.EventID,
		Title:               m.Title,
		Type:                entities.AgendaItemType(m.Type),
		Status:              entities.AgendaItemStatus(m.Status),
		Order:               m.Order,
		Outcome:             entities.ForwardingOutcome(m.Outcome),
		RequiresRevote:      m.RequiresRevote,
		AmendmentID:         m.AmendmentID,
		PositionID:          m.PositionID,
		ScheduledElectionID: m.ScheduledElectionID,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
		ActivatedAt:         m.ActivatedAt,
		CompletedAt:         m.CompletedAt,
		ArchivedAt:          m.ArchivedAt,
	}
}

// amendmentPathModel is a write-capable projection over the amendment table
// scoped to path repair columns.
type amendmentPathModel struct {
	ID             string `gorm:"column:id;primaryKey"`
	WorkflowStatus string `gorm:"column:workflow_status"`
	PathSegments   []byte `gorm:"column:path_segments"`
	PathStatus     string `gorm:"column:path_status"`
}

func (amendmentPathModel) TableName() string {
	return "amendments"
}

func (m amendmentPathModel) segments() ([]ports.PathSegmentRef, error) {
	var raw []struct {
		EntityType string `json:"entity_type"`
		EntityID   string `json:"entity_id"`
		GroupID    string `json:"group_id"`
		Status     string `json:"status"`
	}
	if len(m.PathSegments) > 0 {
		if err := json.Unmarshal(m.PathSegments, &raw); err != nil {
			return nil, err
		}
	}
	segments := make([]ports.PathSegmentRef, 0, len(raw))
	for _, segment := range raw {
		segments = append(segments, ports.PathSegmentRef{
			EntityType: segment.EntityType,
			EntityID:   segment.EntityID,
			GroupID:    segment.GroupID,
			Status:     segment.Status,
		})
	}
	return segments, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "event_service_outbox"
}
