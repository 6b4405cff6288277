package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"concord/contexts/policy-governance/event-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/event-service/domain/errors"
	"concord/contexts/policy-governance/event-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxRecord
	published bool
}

// Store backs every event-service port for tests and local runs, including
// the amendment path projection and the group directory.
type Store struct {
	mu sync.RWMutex

	events     map[string]entities.Event
	agenda     map[string]entities.AgendaItem
	amendments map[string]ports.AmendmentRef
	groups     map[string]bool
	outbox     map[string]outboxRecord

	pathInvalidReasons map[string]string
	failUpdateFor      map[string]bool

	now time.Time
}

func NewStore(seedEvents []entities.Event, seedAgenda []entities.AgendaItem) *Store {
	events := make(map[string]entities.Event, len(seedEvents))
	for _, event := range seedEvents {
		events[event.EventID] = event
	}
	agenda := make(map[string]entities.AgendaItem, len(seedAgenda))
	for _, item := range seedAgenda {
		agenda[item.AgendaItemID] = item
	}
	return &Store{
		events:             events,
		agenda:             agenda,
		amendments:         make(map[string]ports.AmendmentRef),
		groups:             make(map[string]bool),
		outbox:             make(map[string]outboxRecord),
		pathInvalidReasons: make(map[string]string),
		failUpdateFor:      make(map[string]bool),
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

// SetGroup seeds a known group id for path validation.
func (s *Store) SetGroup(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[strings.TrimSpace(groupID)] = true
}

// SetAmendmentPath seeds an amendment route projection.
func (s *Store) SetAmendmentPath(ref ports.AmendmentRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amendments[ref.AmendmentID] = ref
}

// FailUpdateFor makes the next agenda updates for the item fail, for
// exercising the best-effort batch path.
func (s *Store) FailUpdateFor(agendaItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdateFor[strings.TrimSpace(agendaItemID)] = true
}

// PathInvalidReason reports the recorded invalidation reason, if any.
func (s *Store) PathInvalidReason(amendmentID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reason, ok := s.pathInvalidReasons[strings.TrimSpace(amendmentID)]
	return reason, ok
}

func (s *Store) SaveEvent(_ context.Context, event entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[strings.TrimSpace(event.EventID)] = event
	return nil
}

func (s *Store) GetEvent(_ context.Context, eventID string) (entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[strings.TrimSpace(eventID)]
	if !ok {
		return entities.Event{}, domainerrors.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) UpdateEvent(_ context.Context, event entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(event.EventID)
	if _, ok := s.events[id]; !ok {
		return domainerrors.ErrEventNotFound
	}
	s.events[id] = event
	return nil
}

func (s *Store) ListEventsByGroup(_ context.Context, groupID string) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []entities.Event
	for _, event := range s.events {
		if event.OwningGroupID == strings.TrimSpace(groupID) {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	return events, nil
}

func (s *Store) SaveAgendaItem(_ context.Context, item entities.AgendaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agenda[strings.TrimSpace(item.AgendaItemID)] = item
	return nil
}

func (s *Store) GetAgendaItem(_ context.Context, agendaItemID string) (entities.AgendaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.agenda[strings.TrimSpace(agendaItemID)]
	if !ok {
		return entities.AgendaItem{}, domainerrors.ErrAgendaItemNotFound
	}
	return item, nil
}

func (s *Store) UpdateAgendaItem(_ context.Context, item entities.AgendaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(item.AgendaItemID)
	if s.failUpdateFor[id] {
		return errors.New("simulated agenda item write failure")
	}
	if _, ok := s.agenda[id]; !ok {
		return domainerrors.ErrAgendaItemNotFound
	}
	s.agenda[id] = item
	return nil
}

func (s *Store) ListAgendaItemsByEvent(_ context.Context, eventID string) ([]entities.AgendaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.AgendaItem
	for _, item := range s.agenda {
		if item.EventID == strings.TrimSpace(eventID) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
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

func (s *Store) ListAmendmentsWithEventSegment(_ context.Context, eventID string) ([]ports.AmendmentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []ports.AmendmentRef
	for _, ref := range s.amendments {
		for _, segment := range ref.Segments {
			if segment.EntityType == "event" && segment.EntityID == strings.TrimSpace(eventID) {
				refs = append(refs, ref)
				break
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].AmendmentID < refs[j].AmendmentID })
	return refs, nil
}

func (s *Store) ListNonTerminalAmendments(_ context.Context) ([]ports.AmendmentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []ports.AmendmentRef
	for _, ref := range s.amendments {
		if !ref.Terminal {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].AmendmentID < refs[j].AmendmentID })
	return refs, nil
}

func (s *Store) ReplaceSegmentEvent(_ context.Context, amendmentID string, segmentIndex int, newEventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.amendments[strings.TrimSpace(amendmentID)]
	if !ok {
		return domainerrors.ErrAmendmentNotFound
	}
	if segmentIndex < 0 || segmentIndex >= len(ref.Segments) {
		return domainerrors.ErrAmendmentNotFound
	}
	segments := make([]ports.PathSegmentRef, len(ref.Segments))
	copy(segments, ref.Segments)
	segments[segmentIndex].EntityID = strings.TrimSpace(newEventID)
	ref.Segments = segments
	s.amendments[ref.AmendmentID] = ref
	return nil
}

func (s *Store) MarkPathInvalid(_ context.Context, amendmentID string, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(amendmentID)
	ref, ok := s.amendments[id]
	if !ok {
		return domainerrors.ErrAmendmentNotFound
	}
	ref.PathValid = false
	s.amendments[id] = ref
	s.pathInvalidReasons[id] = reason
	return nil
}

func (s *Store) GroupExists(_ context.Context, groupID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups[strings.TrimSpace(groupID)], nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[envelope.EventID] = outboxRecord{
		message: ports.OutboxRecord{
			OutboxID:  envelope.EventID,
			EventType: envelope.EventType,
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

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	record.published = true
	record.message.PublishedAt = &publishedAt
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}
