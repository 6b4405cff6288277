package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
	"concord/contexts/policy-governance/voting-session-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxRecord
	published bool
}

type Store struct {
	mu sync.RWMutex

	sessions    map[string]entities.VotingSession
	votes       map[string]entities.Vote
	ballots     map[string]entities.Ballot
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord

	now time.Time
}

func NewStore(seed []entities.VotingSession) *Store {
	sessions := make(map[string]entities.VotingSession, len(seed))
	for _, session := range seed {
		sessions[session.SessionID] = session
	}
	return &Store{
		sessions:    sessions,
		votes:       make(map[string]entities.Vote),
		ballots:     make(map[string]entities.Ballot),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
	}
}

// SetNow pins the store clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) SaveSession(_ context.Context, session entities.VotingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[strings.TrimSpace(session.SessionID)] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.VotingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return entities.VotingSession{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.votes {
		if existing.SessionID == vote.SessionID &&
			existing.VoterID == vote.VoterID &&
			existing.VoteID != vote.VoteID {
			return domainerrors.ErrDuplicateVote
		}
	}
	s.votes[strings.TrimSpace(vote.VoteID)] = vote
	return nil
}

func (s *Store) GetVoteByVoter(_ context.Context, sessionID string, voterID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, vote := range s.votes {
		if vote.SessionID == strings.TrimSpace(sessionID) && vote.VoterID == strings.TrimSpace(voterID) {
			return vote, true, nil
		}
	}
	return entities.Vote{}, false, nil
}

func (s *Store) ListVotesBySession(_ context.Context, sessionID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var votes []entities.Vote
	for _, vote := range s.votes {
		if vote.SessionID == strings.TrimSpace(sessionID) {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].CreatedAt.Before(votes[j].CreatedAt) })
	return votes, nil
}

func (s *Store) SaveBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ballots {
		if existing.SessionID == ballot.SessionID &&
			existing.VoterID == ballot.VoterID &&
			existing.BallotID != ballot.BallotID {
			return domainerrors.ErrDuplicateVote
		}
	}
	s.ballots[strings.TrimSpace(ballot.BallotID)] = ballot
	return nil
}

func (s *Store) GetBallotByVoter(_ context.Context, sessionID string, voterID string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ballot := range s.ballots {
		if ballot.SessionID == strings.TrimSpace(sessionID) && ballot.VoterID == strings.TrimSpace(voterID) {
			return ballot, true, nil
		}
	}
	return entities.Ballot{}, false, nil
}

func (s *Store) ListBallotsBySession(_ context.Context, sessionID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ballots []entities.Ballot
	for _, ballot := range s.ballots {
		if ballot.SessionID == strings.TrimSpace(sessionID) {
			ballots = append(ballots, ballot)
		}
	}
	sort.Slice(ballots, func(i, j int) bool { return ballots[i].CreatedAt.Before(ballots[j].CreatedAt) })
	return ballots, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok || record.ExpiresAt.Before(now) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[strings.TrimSpace(record.Key)] = record
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := encodeEnvelope(event)
	if err != nil {
		return err
	}
	s.outbox[event.EventID] = outboxRecord{
		message: ports.OutboxRecord{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []ports.OutboxRecord
	for _, record := range s.outbox {
		if !record.published {
			pending = append(pending, record.message)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].OutboxID < pending[j].OutboxID })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func encodeEnvelope(event ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(event)
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrVoteNotFound
	}
	record.published = true
	record.message.PublishedAt = &publishedAt
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}
