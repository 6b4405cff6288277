package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"concord/contexts/policy-governance/group-network-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/group-network-service/domain/errors"
	"concord/contexts/policy-governance/group-network-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	groups        map[string]entities.Group
	relationships map[string]entities.GroupRelationship
	events        []ports.EventRef

	now time.Time
}

func NewStore(seedGroups []entities.Group, seedRelationships []entities.GroupRelationship) *Store {
	groups := make(map[string]entities.Group, len(seedGroups))
	for _, group := range seedGroups {
		groups[group.GroupID] = group
	}
	relationships := make(map[string]entities.GroupRelationship, len(seedRelationships))
	for i, rel := range seedRelationships {
		if rel.RelationshipID == "" {
			rel.RelationshipID = uuid.NewString()
			seedRelationships[i] = rel
		}
		relationships[rel.RelationshipID] = rel
	}
	return &Store{
		groups:        groups,
		relationships: relationships,
	}
}

// SetEvent seeds an upcoming event for NextEventForGroup lookups.
func (s *Store) SetEvent(ref ports.EventRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ref)
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

func (s *Store) SaveGroup(_ context.Context, group entities.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[strings.TrimSpace(group.GroupID)] = group
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[strings.TrimSpace(groupID)]
	if !ok {
		return entities.Group{}, domainerrors.ErrGroupNotFound
	}
	return group, nil
}

func (s *Store) ListRelationships(_ context.Context) ([]entities.GroupRelationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	relationships := make([]entities.GroupRelationship, 0, len(s.relationships))
	for _, rel := range s.relationships {
		relationships = append(relationships, rel)
	}
	sort.Slice(relationships, func(i, j int) bool {
		return relationships[i].RelationshipID < relationships[j].RelationshipID
	})
	return relationships, nil
}

func (s *Store) GetRelationshipByEdge(_ context.Context, parentGroupID string, childGroupID string) (entities.GroupRelationship, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rel := range s.relationships {
		if rel.ParentGroupID == strings.TrimSpace(parentGroupID) && rel.ChildGroupID == strings.TrimSpace(childGroupID) {
			return rel, true, nil
		}
	}
	return entities.GroupRelationship{}, false, nil
}

func (s *Store) SaveRelationship(_ context.Context, relationship entities.GroupRelationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships[strings.TrimSpace(relationship.RelationshipID)] = relationship
	return nil
}

func (s *Store) DeleteRelationship(_ context.Context, relationshipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relationships[strings.TrimSpace(relationshipID)]; !ok {
		return domainerrors.ErrRelationshipNotFound
	}
	delete(s.relationships, strings.TrimSpace(relationshipID))
	return nil
}

func (s *Store) NextEventForGroup(_ context.Context, groupID string, after time.Time) (ports.EventRef, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best ports.EventRef
	found := false
	for _, ref := range s.events {
		if ref.GroupID != strings.TrimSpace(groupID) || !ref.StartsAt.After(after) {
			continue
		}
		if !found || ref.StartsAt.Before(best.StartsAt) {
			best = ref
			found = true
		}
	}
	return best, found, nil
}
