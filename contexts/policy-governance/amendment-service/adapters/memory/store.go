package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	"concord/contexts/policy-governance/amendment-service/ports"

	"github.com/google/uuid"
)

// Store backs the amendment repos, clock, id generator and idempotency
// store for tests and local runs.
type Store struct {
	mu sync.RWMutex

	amendments  map[string]entities.Amendment
	idempotency map[string]ports.IdempotencyRecord

	now time.Time
}

func NewStore(seed []entities.Amendment) *Store {
	amendments := make(map[string]entities.Amendment, len(seed))
	for _, amendment := range seed {
		amendments[amendment.AmendmentID] = amendment
	}
	return &Store{
		amendments:  amendments,
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

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

func (s *Store) SaveAmendment(_ context.Context, amendment entities.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amendments[strings.TrimSpace(amendment.AmendmentID)] = amendment
	return nil
}

func (s *Store) GetAmendment(_ context.Context, amendmentID string) (entities.Amendment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amendment, ok := s.amendments[strings.TrimSpace(amendmentID)]
	if !ok {
		return entities.Amendment{}, domainerrors.ErrAmendmentNotFound
	}
	return amendment, nil
}

func (s *Store) UpdateAmendment(_ context.Context, amendment entities.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(amendment.AmendmentID)
	if _, ok := s.amendments[id]; !ok {
		return domainerrors.ErrAmendmentNotFound
	}
	s.amendments[id] = amendment
	return nil
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
