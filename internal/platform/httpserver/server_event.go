package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	eventerrors "concord/contexts/policy-governance/event-service/domain/errors"
	eventhttp "concord/contexts/policy-governance/event-service/transport/http"
)

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventhttp.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEventError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.events.Handler.CreateEventHandler(r.Context(), req)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCreateAgendaItem(w http.ResponseWriter, r *http.Request) {
	var req eventhttp.CreateAgendaItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEventError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.events.Handler.CreateAgendaItemHandler(r.Context(), req)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleValidateCancellation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")
	resp, err := s.events.Handler.ValidateCancellationHandler(r.Context(), eventID)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelEvent(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeEventError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	eventID := r.PathValue("event_id")
	resp, err := s.events.Handler.CancelEventHandler(r.Context(), eventID, actorID)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEventAgenda(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")
	resp, err := s.events.Handler.EventAgendaHandler(r.Context(), eventID)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeEventDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, eventerrors.ErrEventNotFound),
		errors.Is(err, eventerrors.ErrAgendaItemNotFound),
		errors.Is(err, eventerrors.ErrAmendmentNotFound):
		writeEventError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, eventerrors.ErrEventAlreadyCancelled):
		writeEventError(w, http.StatusConflict, "event_already_cancelled", err.Error())
	case errors.Is(err, eventerrors.ErrNoReassignmentTarget):
		writeEventError(w, http.StatusUnprocessableEntity, "no_reassignment_target", err.Error())
	case errors.Is(err, eventerrors.ErrInvalidEventInput),
		errors.Is(err, eventerrors.ErrInvalidAgendaItemInput):
		writeEventError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeEventError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEventError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, eventhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
