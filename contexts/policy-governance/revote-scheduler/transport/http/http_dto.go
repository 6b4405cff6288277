package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ScheduleRevoteRequest struct {
	PositionID string     `json:"position_id"`
	TermStart  *time.Time `json:"term_start,omitempty"`
}

type ScheduledElectionResponse struct {
	ScheduledElectionID string     `json:"scheduled_election_id"`
	PositionID          string     `json:"position_id"`
	EventID             string     `json:"event_id"`
	AgendaItemID        string     `json:"agenda_item_id,omitempty"`
	ScheduledFor        time.Time  `json:"scheduled_for"`
	Status              string     `json:"status"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	EventCreated        bool       `json:"event_created,omitempty"`
}
