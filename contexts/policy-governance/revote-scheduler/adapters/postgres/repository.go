package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	domainerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"

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

func (r *Repository) SavePosition(ctx context.Context, position entities.Position) error {
	row := positionModelFromEntity(position)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("revote_repo_save_position_failed", create.Error,
			"position_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, domainerrors.ErrPositionNotFound
		}
		return entities.Position{}, r.logError("revote_repo_get_position_failed", err,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdatePosition(ctx context.Context, position entities.Position) error {
	row := positionModelFromEntity(position)
	update := r.db.WithContext(ctx).
		Model(&positionModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"scheduled_revote_date": row.ScheduledRevoteDate,
			"updated_at":            row.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("revote_repo_update_position_failed", update.Error,
			"position_id", row.ID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrPositionNotFound
	}
	return nil
}

func (r *Repository) SaveElection(ctx context.Context, election entities.ScheduledElection) error {
	row := electionModelFromEntity(election)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("revote_repo_save_election_failed", create.Error,
			"election_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, scheduledElectionID string) (entities.ScheduledElection, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(scheduledElectionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ScheduledElection{}, domainerrors.ErrElectionNotFound
		}
		return entities.ScheduledElection{}, r.logError("revote_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(scheduledElectionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateElection(ctx context.Context, election entities.ScheduledElection) error {
	row := electionModelFromEntity(election)
	update := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"event_id":       row.EventID,
			"agenda_item_id": row.AgendaItemID,
			"status":         row.Status,
			"cancelled_at":   row.CancelledAt,
			"updated_at":     row.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("revote_repo_update_election_failed", update.Error,
			"election_id", row.ID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "policy-governance/revote-scheduler",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("revote repository operation failed", fields...)
	return err
}

type positionModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	GroupID             string     `gorm:"column:group_id"`
	Title               string     `gorm:"column:title"`
	HolderID            string     `gorm:"column:holder_id"`
	TermDuration        string     `gorm:"column:term_duration"`
	TermStartDate       time.Time  `gorm:"column:term_start_date"`
	ScheduledRevoteDate *time.Time `gorm:"column:scheduled_revote_date"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (positionModel) TableName() string {
	return "positions"
}

func positionModelFromEntity(position entities.Position) positionModel {
	return positionModel{
		ID:                  strings.TrimSpace(position.PositionID),
		GroupID:             strings.TrimSpace(position.GroupID),
		Title:               position.Title,
		HolderID:            strings.TrimSpace(position.HolderID),
		TermDuration:        string(position.TermDuration),
		TermStartDate:       position.TermStartDate.UTC(),
		ScheduledRevoteDate: position.ScheduledRevoteDate,
		CreatedAt:           position.CreatedAt.UTC(),
		UpdatedAt:           position.UpdatedAt.UTC(),
	}
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:          m.ID,
		GroupID:             m.GroupID,
		Title:               m.Title,
		HolderID:            m.HolderID,
		TermDuration:        entities.TermDuration(m.TermDuration),
		TermStartDate:       m.TermStartDate.UTC(),
		ScheduledRevoteDate: m.ScheduledRevoteDate,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

type electionModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	PositionID   string     `gorm:"column:position_id"`
	GroupID      string     `gorm:"column:group_id"`
	EventID      string     `gorm:"column:event_id"`
	AgendaItemID string     `gorm:"column:agenda_item_id"`
	ScheduledFor time.Time  `gorm:"column:scheduled_for"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at"`
}

func (electionModel) TableName() string {
	return "scheduled_elections"
}

func electionModelFromEntity(election entities.ScheduledElection) electionModel {
	return electionModel{
		ID:           strings.TrimSpace(election.ScheduledElectionID),
		PositionID:   strings.TrimSpace(election.PositionID),
		GroupID:      strings.TrimSpace(election.GroupID),
		EventID:      strings.TrimSpace(election.EventID),
		AgendaItemID: strings.TrimSpace(election.AgendaItemID),
		ScheduledFor: election.ScheduledFor.UTC(),
		Status:       string(election.Status),
		CreatedAt:    election.CreatedAt.UTC(),
		UpdatedAt:    election.UpdatedAt.UTC(),
		CancelledAt:  election.CancelledAt,
	}
}

func (m electionModel) toEntity() entities.ScheduledElection {
	return entities.ScheduledElection{
		ScheduledElectionID: m.ID,
		PositionID:          m.PositionID,
		GroupID:             m.GroupID,
		EventID:             m.EventID,
		AgendaItemID:        m.AgendaItemID,
		ScheduledFor:        m.ScheduledFor.UTC(),
		Status:              entities.ElectionStatus(m.Status),
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
		CancelledAt:         m.CancelledAt,
	}
}
