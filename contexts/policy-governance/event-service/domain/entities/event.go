package entities

import "time"

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	EventID       string
	OwningGroupID string
	Title         string
	StartsAt      time.Time
	Status        EventStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   *time.Time
}

func (e Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

type AgendaItemType string

const (
	AgendaItemTypeAmendment           AgendaItemType = "amendment"
	AgendaItemTypeElection            AgendaItemType = "election"
	AgendaItemTypeSupportConfirmation AgendaItemType = "support_confirmation"
	AgendaItemTypeOther               AgendaItemType = "other"
)

func IsSupportedAgendaItemType(itemType AgendaItemType) bool {
	switch itemType {
	case AgendaItemTypeAmendment,
		AgendaItemTypeElection,
		AgendaItemTypeSupportConfirmation,
		AgendaItemTypeOther:
		return true
	default:
		return false
	}
}

// RequiresReassignment reports whether a cancelled event may not simply
// archive items of this type.
func (t AgendaItemType) RequiresReassignment() bool {
	switch t {
	case AgendaItemTypeAmendment, AgendaItemTypeElection, AgendaItemTypeSupportConfirmation:
		return true
	default:
		return false
	}
}

type AgendaItemStatus string

const (
	AgendaItemStatusScheduled AgendaItemStatus = "scheduled"
	AgendaItemStatusActive    AgendaItemStatus = "active"
	AgendaItemStatusCompleted AgendaItemStatus = "completed"
	AgendaItemStatusArchived  AgendaItemStatus = "archived"
	AgendaItemStatusOrphaned  AgendaItemStatus = "orphaned"
)

type ForwardingOutcome string

const (
	OutcomeApproved ForwardingOutcome = "approved"
	OutcomeRejected ForwardingOutcome = "rejected"
	OutcomeTie      ForwardingOutcome = "tie"
)

// AgendaItem is one schedulable unit of business attached to an event.
// Order positions it inside the event's agenda. Outcome and RequiresRevote
// are written when a voting session on the item closes.
type AgendaItem struct {
	AgendaItemID        string
	EventID             string
	Title               string
	Type                AgendaItemType
	Status              AgendaItemStatus
	Order               int
	Outcome             ForwardingOutcome
	RequiresRevote      bool
	AmendmentID         string
	PositionID          string
	ScheduledElectionID string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ActivatedAt         *time.Time
	CompletedAt         *time.Time
	ArchivedAt          *time.Time
}
