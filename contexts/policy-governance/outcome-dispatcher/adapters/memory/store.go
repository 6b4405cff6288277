package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	amendmenterrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
	eventerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/outcome-dispatcher/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxRecord
	published bool
}

// Store backs every dispatcher port for tests and local runs. It holds
// agenda items and amendments directly so dispatches mutate the same state
// the owning services would.
type Store struct {
	mu sync.RWMutex

	agenda      map[string]evententities.AgendaItem
	amendments  map[string]amendmententities.Amendment
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord

	now time.Time
}

func NewStore(seedAgenda []evententities.AgendaItem, seedAmendments []amendmententities.Amendment) *Store {
	agenda := make(map[string]evententities.AgendaItem, len(seedAgenda))
	for _, item := range seedAgenda {
		agenda[item.AgendaItemID] = item
	}
	amendments := make(map[string]amendmententities.Amendment, len(seedAmendments))
	for _, amendment := range seedAmendments {
		amendments[amendment.AmendmentID] = amendment
	}
	return &Store{
		agenda:      agenda,
		amendments:  amendments,
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
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

func (s *Store) SaveAgendaItem(_ context.Context, item evententities.AgendaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agenda[strings.TrimSpace(item.AgendaItemID)] = item
	return nil
}

func (s *Store) GetAgendaItem(_ context.Context, agendaItemID string) (evententities.AgendaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.agenda[strings.TrimSpace(agendaItemID)]
	if !ok {
		return evententities.AgendaItem{}, eventerrors.ErrAgendaItemNotFound
	}
	return item, nil
}

func (s *Store) UpdateAgendaItem(_ context.Context, item evententities.AgendaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(item.AgendaItemID)
	if _, ok := s.agenda[id]; !ok {
		return eventerrors.ErrAgendaItemNotFound
	}
	s.agenda[id] = item
	return nil
}

func (s *Store) MaxOrderForEvent(_ context.Context, eventID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxOrder := 0
	for _, item := range s.agenda {
		if item.EventID == strings.TrimSpace(eventID) && item.Order > maxOrder {
			maxOrder = item.Order
		}
	}
	return maxOrder, nil
}

// AgendaItemsForEvent lists item ids for an event ordered by position,
// for test assertions.
func (s *Store) AgendaItemsForEvent(eventID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []evententities.AgendaItem
	for _, item := range s.agenda {
		if item.EventID == eventID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.AgendaItemID)
	}
	return ids
}

func (s *Store) SaveAmendment(_ context.Context, amendment amendmententities.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amendments[strings.TrimSpace(amendment.AmendmentID)] = amendment
	return nil
}

func (s *Store) GetAmendment(_ context.Context, amendmentID string) (amendmententities.Amendment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amendment, ok := s.amendments[strings.TrimSpace(amendmentID)]
	if !ok {
		return amendmententities.Amendment{}, amendmenterrors.ErrAmendmentNotFound
	}
	return amendment, nil
}

func (s *Store) UpdateAmendment(_ context.Context, amendment amendmententities.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(amendment.AmendmentID)
	if _, ok := s.amendments[id]; !ok {
		return amendmenterrors.ErrAmendmentNotFound
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

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox[event.EventID] = outboxRecord{message: ports.OutboxRecord{
		OutboxID:  event.EventID,
		EventType: event.EventType,
		Payload:   payload,
	}}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []ports.OutboxRecord
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		pending = append(pending, record.message)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].OutboxID < pending[j].OutboxID })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	at := publishedAt
	record.message.PublishedAt = &at
	s.outbox[outboxID] = record
	return nil
}
