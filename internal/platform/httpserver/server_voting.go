package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	votingerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
	votinghttp "concord/contexts/policy-governance/voting-session-service/transport/http"
)

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.OpenSessionHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.voting.Handler.CastVoteHandler(
		r.Context(),
		voterID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.CloseSessionHandler(r.Context(), sessionID, actorID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessionTally(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.SessionTallyHandler(r.Context(), sessionID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrSessionNotFound),
		errors.Is(err, votingerrors.ErrVoteNotFound):
		writeVotingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, votingerrors.ErrSessionClosed),
		errors.Is(err, votingerrors.ErrSessionAlreadyClosed),
		errors.Is(err, votingerrors.ErrDuplicateVote),
		errors.Is(err, votingerrors.ErrIdempotencyConflict):
		writeVotingError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, votingerrors.ErrIdempotencyKeyRequired):
		writeVotingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidVoteInput),
		errors.Is(err, votingerrors.ErrInvalidSessionInput),
		errors.Is(err, votingerrors.ErrWrongSessionKind),
		errors.Is(err, votingerrors.ErrUnknownMajorityType):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
