package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateEventRequest struct {
	OwningGroupID string    `json:"owning_group_id"`
	Title         string    `json:"title,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
}

type EventResponse struct {
	EventID       string     `json:"event_id"`
	OwningGroupID string     `json:"owning_group_id"`
	Title         string     `json:"title,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	Status        string     `json:"status"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

type CreateAgendaItemRequest struct {
	EventID             string `json:"event_id"`
	Title               string `json:"title,omitempty"`
	Type                string `json:"type"`
	AmendmentID         string `json:"amendment_id,omitempty"`
	PositionID          string `json:"position_id,omitempty"`
	ScheduledElectionID string `json:"scheduled_election_id,omitempty"`
}

type AgendaItemResponse struct {
	AgendaItemID string `json:"agenda_item_id"`
	EventID      string `json:"event_id"`
	Title        string `json:"title,omitempty"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Order        int    `json:"order"`
	AmendmentID  string `json:"amendment_id,omitempty"`
	PositionID   string `json:"position_id,omitempty"`
}

type CancellationValidationResponse struct {
	IsValid              bool   `json:"is_valid"`
	RequiresReassignment bool   `json:"requires_reassignment"`
	TargetEventID        string `json:"target_event_id,omitempty"`
	TargetEventTitle     string `json:"target_event_title,omitempty"`
	Reason               string `json:"reason,omitempty"`
}

type ItemFailureResponse struct {
	AgendaItemID string `json:"agenda_item_id"`
	Reason       string `json:"reason"`
}

type CancelEventResponse struct {
	Event           EventResponse                  `json:"event"`
	Validation      CancellationValidationResponse `json:"validation"`
	MovedItemIDs    []string                       `json:"moved_item_ids,omitempty"`
	ArchivedItemIDs []string                       `json:"archived_item_ids,omitempty"`
	Failures        []ItemFailureResponse          `json:"failures,omitempty"`
	PathChanges     int                            `json:"path_changes"`
}

type EventAgendaResponse struct {
	Event EventResponse        `json:"event"`
	Items []AgendaItemResponse `json:"items"`
}
