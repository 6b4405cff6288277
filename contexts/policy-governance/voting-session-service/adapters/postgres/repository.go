package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
	"concord/contexts/policy-governance/voting-session-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *Repository) SaveSession(ctx context.Context, session entities.VotingSession) error {
	row := sessionModelFromEntity(session)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":         row.Status,
			"result":         row.Result,
			"quorum_reached": row.QuorumReached,
			"closed_at":      row.ClosedAt,
			"updated_at":     row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("voting_repo_save_session_failed", create.Error,
			"session_id", strings.TrimSpace(session.SessionID),
		)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.VotingSession, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VotingSession{}, domainerrors.ErrSessionNotFound
		}
		return entities.VotingSession{}, r.logError("voting_repo_get_session_failed", err,
			"session_id", strings.TrimSpace(sessionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		// session_id+voter_id unique index backs the one-vote invariant.
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrDuplicateVote
		}
		return r.logError("voting_repo_save_vote_failed", create.Error,
			"vote_id", strings.TrimSpace(vote.VoteID),
			"session_id", strings.TrimSpace(vote.SessionID),
		)
	}
	return nil
}

func (r *Repository) GetVoteByVoter(ctx context.Context, sessionID string, voterID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("voting_repo_get_vote_by_voter_failed", err,
			"session_id", strings.TrimSpace(sessionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_votes_failed", err,
			"session_id", strings.TrimSpace(sessionID),
		)
	}
	votes := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.toEntity())
	}
	return votes, nil
}

func (r *Repository) SaveBallot(ctx context.Context, ballot entities.Ballot) error {
	row := ballotModelFromEntity(ballot)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrDuplicateVote
		}
		return r.logError("voting_repo_save_ballot_failed", create.Error,
			"ballot_id", strings.TrimSpace(ballot.BallotID),
			"session_id", strings.TrimSpace(ballot.SessionID),
		)
	}
	return nil
}

func (r *Repository) GetBallotByVoter(ctx context.Context, sessionID string, voterID string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("voting_repo_get_ballot_by_voter_failed", err,
			"session_id", strings.TrimSpace(sessionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListBallotsBySession(ctx context.Context, sessionID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_ballots_failed", err,
			"session_id", strings.TrimSpace(sessionID),
		)
	}
	ballots := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		ballots = append(ballots, row.toEntity())
	}
	return ballots, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("voting_repo_idempotency_get_failed", err,
			"idempotency_key", strings.TrimSpace(key),
		)
	}
	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).Error; err != nil {
			return ports.IdempotencyRecord{}, false, r.logError("voting_repo_idempotency_expire_delete_failed", err,
				"idempotency_key", strings.TrimSpace(key),
			)
		}
		return ports.IdempotencyRecord{}, false, nil
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
		return r.logError("voting_repo_idempotency_put_failed", create.Error, "idempotency_key", row.Key)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).Error; err != nil {
		return r.logError("voting_repo_idempotency_load_existing_failed", err, "idempotency_key", row.Key)
	}
	if existing.RequestHash != row.RequestHash || existing.EntityID != row.EntityID {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("voting_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("voting_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("voting_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrIdempotencyConflict
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
		return nil, r.logError("voting_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxRecord{
			OutboxID:    row.OutboxID,
			EventType:   row.EventType,
			Payload:     append([]byte(nil), row.Payload...),
			PublishedAt: row.PublishedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("voting_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVoteNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "policy-governance/voting-session-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type sessionModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	AgendaItemID   string     `gorm:"column:agenda_item_id"`
	AmendmentID    string     `gorm:"column:amendment_id"`
	EventID        string     `gorm:"column:event_id"`
	Kind           string     `gorm:"column:kind"`
	MajorityType   string     `gorm:"column:majority_type"`
	EligibleVoters int        `gorm:"column:eligible_voters"`
	QuorumPercent  float64    `gorm:"column:quorum_percent"`
	Status         string     `gorm:"column:status"`
	Result         string     `gorm:"column:result"`
	QuorumReached  bool       `gorm:"column:quorum_reached"`
	OpenedAt       time.Time  `gorm:"column:opened_at"`
	ClosedAt       *time.Time `gorm:"column:closed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (sessionModel) TableName() string {
	return "voting_sessions"
}

func sessionModelFromEntity(session entities.VotingSession) sessionModel {
	row := sessionModel{
		ID:             strings.TrimSpace(session.SessionID),
		AgendaItemID:   strings.TrimSpace(session.AgendaItemID),
		AmendmentID:    strings.TrimSpace(session.AmendmentID),
		EventID:        strings.TrimSpace(session.EventID),
		Kind:           string(session.Kind),
		MajorityType:   string(session.MajorityType),
		EligibleVoters: session.EligibleVoters,
		QuorumPercent:  session.QuorumPercent,
		Status:         string(session.Status),
		Result:         string(session.Result),
		QuorumReached:  session.QuorumReached,
		OpenedAt:       session.OpenedAt.UTC(),
		ClosedAt:       session.ClosedAt,
		CreatedAt:      session.CreatedAt.UTC(),
		UpdatedAt:      session.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m sessionModel) toEntity() entities.VotingSession {
	return entities.VotingSession{
		SessionID:      m.ID,
		AgendaItemID:   m.AgendaItemID,
		AmendmentID:    m.AmendmentID,
		EventID:        m.EventID,
		Kind:           entities.SessionKind(m.Kind),
		MajorityType:   entities.MajorityType(m.MajorityType),
		EligibleVoters: m.EligibleVoters,
		QuorumPercent:  m.QuorumPercent,
		Status:         entities.SessionStatus(m.Status),
		Result:         entities.SessionResult(m.Result),
		QuorumReached:  m.QuorumReached,
		OpenedAt:       m.OpenedAt.UTC(),
		ClosedAt:       m.ClosedAt,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type voteModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	SessionID string    `gorm:"column:session_id;uniqueIndex:idx_votes_session_voter"`
	VoterID   string    `gorm:"column:voter_id;uniqueIndex:idx_votes_session_voter"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:        strings.TrimSpace(vote.VoteID),
		SessionID: strings.TrimSpace(vote.SessionID),
		VoterID:   strings.TrimSpace(vote.VoterID),
		Value:     string(vote.Value),
		CreatedAt: vote.CreatedAt.UTC(),
		UpdatedAt: vote.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:    m.ID,
		SessionID: m.SessionID,
		VoterID:   m.VoterID,
		Value:     entities.VoteValue(m.Value),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type ballotModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	SessionID   string    `gorm:"column:session_id;uniqueIndex:idx_ballots_session_voter"`
	VoterID     string    `gorm:"column:voter_id;uniqueIndex:idx_ballots_session_voter"`
	CandidateID string    `gorm:"column:candidate_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	row := ballotModel{
		ID:          strings.TrimSpace(ballot.BallotID),
		SessionID:   strings.TrimSpace(ballot.SessionID),
		VoterID:     strings.TrimSpace(ballot.VoterID),
		CandidateID: strings.TrimSpace(ballot.CandidateID),
		CreatedAt:   ballot.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID:    m.ID,
		SessionID:   m.SessionID,
		VoterID:     m.VoterID,
		CandidateID: m.CandidateID,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	EntityID    string    `gorm:"column:entity_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "voting_session_idempotency"
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
	return "voting_session_outbox"
}
