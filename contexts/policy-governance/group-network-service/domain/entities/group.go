package entities

import "time"

type Group struct {
	GroupID   string
	Name      string
	CreatedAt time.Time
}

// GroupRelationship is a directed parent/child edge carrying a capability
// tag. Traversal walks edges in either direction; the parent/child meaning
// stays asymmetric.
type GroupRelationship struct {
	RelationshipID string
	ParentGroupID  string
	ChildGroupID   string
	Right          string
	CreatedAt      time.Time
}

type RelationKind string

const (
	RelationKindMember RelationKind = "member"
	RelationKindParent RelationKind = "parent"
	RelationKindChild  RelationKind = "child"
)

// PathStep is one hop of a computed route.
type PathStep struct {
	GroupID  string
	Relation RelationKind
	Distance int
}

type SegmentType string

const (
	SegmentTypeGroup SegmentType = "group"
	SegmentTypeEvent SegmentType = "event"
)

type SegmentStatus string

const (
	SegmentStatusPending  SegmentStatus = "pending"
	SegmentStatusResolved SegmentStatus = "resolved"
)

// RouteSegment is the storage form of one hop: a concrete event where one is
// already scheduled for the group, the group itself otherwise.
type RouteSegment struct {
	EntityType SegmentType
	EntityID   string
	GroupID    string
	Status     SegmentStatus
}
