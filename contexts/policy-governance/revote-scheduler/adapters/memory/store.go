package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	domainerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"
	"concord/contexts/policy-governance/revote-scheduler/ports"

	"github.com/google/uuid"
)

// Store backs the scheduler ports for tests and local runs, including a
// minimal event planner.
type Store struct {
	mu sync.RWMutex

	positions map[string]entities.Position
	elections map[string]entities.ScheduledElection
	events    map[string]plannedEvent
	agenda    map[string]plannedAgendaItem

	now time.Time
}

type plannedEvent struct {
	ref     ports.EventRef
	groupID string
	title   string
}

type plannedAgendaItem struct {
	agendaItemID        string
	eventID             string
	title               string
	positionID          string
	scheduledElectionID string
}

func NewStore(seedPositions []entities.Position) *Store {
	positions := make(map[string]entities.Position, len(seedPositions))
	for _, position := range seedPositions {
		positions[position.PositionID] = position
	}
	return &Store{
		positions: positions,
		elections: make(map[string]entities.ScheduledElection),
		events:    make(map[string]plannedEvent),
		agenda:    make(map[string]plannedAgendaItem),
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

// SetEvent seeds an existing group event.
func (s *Store) SetEvent(groupID string, ref ports.EventRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ref.EventID] = plannedEvent{ref: ref, groupID: strings.TrimSpace(groupID)}
}

// AgendaItemsForEvent reports the election items created at an event.
func (s *Store) AgendaItemsForEvent(eventID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, item := range s.agenda {
		if item.eventID == strings.TrimSpace(eventID) {
			ids = append(ids, item.agendaItemID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) SavePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
	return nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) UpdatePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(position.PositionID)
	if _, ok := s.positions[id]; !ok {
		return domainerrors.ErrPositionNotFound
	}
	s.positions[id] = position
	return nil
}

func (s *Store) SaveElection(_ context.Context, election entities.ScheduledElection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ScheduledElectionID)] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, scheduledElectionID string) (entities.ScheduledElection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(scheduledElectionID)]
	if !ok {
		return entities.ScheduledElection{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) UpdateElection(_ context.Context, election entities.ScheduledElection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(election.ScheduledElectionID)
	if _, ok := s.elections[id]; !ok {
		return domainerrors.ErrElectionNotFound
	}
	s.elections[id] = election
	return nil
}

func (s *Store) ListGroupEvents(_ context.Context, groupID string) ([]ports.EventRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []ports.EventRef
	for _, event := range s.events {
		if event.groupID == strings.TrimSpace(groupID) {
			refs = append(refs, event.ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].StartsAt.Before(refs[j].StartsAt) })
	return refs, nil
}

func (s *Store) CreateEvent(_ context.Context, groupID string, title string, startsAt time.Time) (ports.EventRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := ports.EventRef{EventID: uuid.NewString(), StartsAt: startsAt.UTC()}
	s.events[ref.EventID] = plannedEvent{ref: ref, groupID: strings.TrimSpace(groupID), title: title}
	return ref, nil
}

func (s *Store) CreateElectionAgendaItem(_ context.Context, eventID string, title string, positionID string, scheduledElectionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := plannedAgendaItem{
		agendaItemID:        uuid.NewString(),
		eventID:             strings.TrimSpace(eventID),
		title:               title,
		positionID:          strings.TrimSpace(positionID),
		scheduledElectionID: strings.TrimSpace(scheduledElectionID),
	}
	s.agenda[item.agendaItemID] = item
	return item.agendaItemID, nil
}
