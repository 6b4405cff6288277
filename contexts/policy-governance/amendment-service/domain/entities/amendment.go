package entities

import "time"

type WorkflowStatus string

const (
	StatusCollaborativeEditing WorkflowStatus = "collaborative_editing"
	StatusInternalSuggesting   WorkflowStatus = "internal_suggesting"
	StatusInternalVoting       WorkflowStatus = "internal_voting"
	StatusViewing              WorkflowStatus = "viewing"
	StatusEventSuggesting      WorkflowStatus = "event_suggesting"
	StatusEventVoting          WorkflowStatus = "event_voting"
	StatusPassed               WorkflowStatus = "passed"
	StatusRejected             WorkflowStatus = "rejected"
)

func IsSupportedWorkflowStatus(status WorkflowStatus) bool {
	switch status {
	case StatusCollaborativeEditing,
		StatusInternalSuggesting,
		StatusInternalVoting,
		StatusViewing,
		StatusEventSuggesting,
		StatusEventVoting,
		StatusPassed,
		StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s WorkflowStatus) IsTerminal() bool {
	return s == StatusPassed || s == StatusRejected
}

type PathStatus string

const (
	PathStatusValid   PathStatus = "valid"
	PathStatusInvalid PathStatus = "invalid"
)

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

// PathSegment is one planned hop of an amendment's route. Event segments
// point at a concrete scheduled event; group segments are placeholders until
// the group schedules one.
type PathSegment struct {
	EntityType SegmentType   `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	GroupID    string        `json:"group_id"`
	Status     SegmentStatus `json:"status"`
}

// Amendment is the policy-change document routed through the group network.
// Terminal statuses keep the record; nothing in this context deletes one.
type Amendment struct {
	AmendmentID       string
	Title             string
	Body              string
	AuthorID          string
	OwningGroupID     string
	TargetGroupID     string
	WorkflowStatus    WorkflowStatus
	PathSegments      []PathSegment
	PathStatus        PathStatus
	PathInvalidReason string
	// PendingForGroupID parks the amendment against a group that has no
	// scheduled event yet; the group's next event picks it up.
	PendingForGroupID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	StatusChangedAt   time.Time
	DecidedAt         *time.Time
}
