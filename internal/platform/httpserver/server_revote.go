package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	revoteerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"
	revotehttp "concord/contexts/policy-governance/revote-scheduler/transport/http"
)

func (s *Server) handleScheduleRevote(w http.ResponseWriter, r *http.Request) {
	var req revotehttp.ScheduleRevoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRevoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.revotes.Handler.ScheduleRevoteHandler(r.Context(), req)
	if err != nil {
		writeRevoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCancelRevote(w http.ResponseWriter, r *http.Request) {
	scheduledElectionID := r.PathValue("scheduled_election_id")
	resp, err := s.revotes.Handler.CancelScheduledRevoteHandler(r.Context(), scheduledElectionID)
	if err != nil {
		writeRevoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRevoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, revoteerrors.ErrPositionNotFound),
		errors.Is(err, revoteerrors.ErrElectionNotFound):
		writeRevoteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, revoteerrors.ErrElectionAlreadyCanceled):
		writeRevoteError(w, http.StatusConflict, "election_already_cancelled", err.Error())
	case errors.Is(err, revoteerrors.ErrInvalidPositionInput),
		errors.Is(err, revoteerrors.ErrUnknownTermDuration):
		writeRevoteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRevoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRevoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, revotehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
