package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	amendmenterrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	amendmenthttp "concord/contexts/policy-governance/amendment-service/transport/http"
)

func (s *Server) handleSubmitAmendment(w http.ResponseWriter, r *http.Request) {
	authorID := r.Header.Get("X-User-Id")
	if authorID == "" {
		writeAmendmentError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req amendmenthttp.SubmitAmendmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAmendmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.amendments.Handler.SubmitAmendmentHandler(
		r.Context(),
		authorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeAmendmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTransitionAmendment(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeAmendmentError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req amendmenthttp.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAmendmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	amendmentID := r.PathValue("amendment_id")
	resp, err := s.amendments.Handler.TransitionHandler(r.Context(), amendmentID, actorID, req)
	if err != nil {
		writeAmendmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAmendment(w http.ResponseWriter, r *http.Request) {
	amendmentID := r.PathValue("amendment_id")
	resp, err := s.amendments.Handler.GetAmendmentHandler(r.Context(), amendmentID)
	if err != nil {
		writeAmendmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAmendmentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, amendmenterrors.ErrAmendmentNotFound):
		writeAmendmentError(w, http.StatusNotFound, "amendment_not_found", err.Error())
	case errors.Is(err, amendmenterrors.ErrIllegalTransition):
		writeAmendmentError(w, http.StatusUnprocessableEntity, "illegal_transition", err.Error())
	case errors.Is(err, amendmenterrors.ErrPathInvalid):
		writeAmendmentError(w, http.StatusConflict, "path_invalid", err.Error())
	case errors.Is(err, amendmenterrors.ErrIdempotencyConflict):
		writeAmendmentError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, amendmenterrors.ErrIdempotencyKeyRequired):
		writeAmendmentError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, amendmenterrors.ErrInvalidAmendmentInput):
		writeAmendmentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeAmendmentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAmendmentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, amendmenthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
