package entities

import "time"

type TermDuration string

const (
	TermMonthly   TermDuration = "monthly"
	TermQuarterly TermDuration = "quarterly"
	TermBiannual  TermDuration = "biannual"
	TermYearly    TermDuration = "yearly"
)

func IsSupportedTermDuration(duration TermDuration) bool {
	switch duration {
	case TermMonthly, TermQuarterly, TermBiannual, TermYearly:
		return true
	default:
		return false
	}
}

// Position is an elected role whose term length drives revote scheduling.
type Position struct {
	PositionID          string
	GroupID             string
	Title               string
	HolderID            string
	TermDuration        TermDuration
	TermStartDate       time.Time
	ScheduledRevoteDate *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type ElectionStatus string

const (
	ElectionStatusScheduled    ElectionStatus = "scheduled"
	ElectionStatusEventCreated ElectionStatus = "event_created"
	ElectionStatusCancelled    ElectionStatus = "cancelled"
)

// ScheduledElection links a position to the future event and agenda item
// that will hold its revote.
type ScheduledElection struct {
	ScheduledElectionID string
	PositionID          string
	GroupID             string
	EventID             string
	AgendaItemID        string
	ScheduledFor        time.Time
	Status              ElectionStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CancelledAt         *time.Time
}
