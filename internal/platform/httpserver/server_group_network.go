package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	groupnetworkerrors "concord/contexts/policy-governance/group-network-service/domain/errors"
	groupnetworkhttp "concord/contexts/policy-governance/group-network-service/transport/http"
)

func (s *Server) handleShortestRoute(w http.ResponseWriter, r *http.Request) {
	var req groupnetworkhttp.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGroupNetworkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.groupNetwork.Handler.ShortestRouteHandler(r.Context(), req)
	if err != nil {
		writeGroupNetworkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllRoutes(w http.ResponseWriter, r *http.Request) {
	var req groupnetworkhttp.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGroupNetworkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.groupNetwork.Handler.AllRoutesHandler(r.Context(), req)
	if err != nil {
		writeGroupNetworkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuildRoute(w http.ResponseWriter, r *http.Request) {
	var req groupnetworkhttp.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGroupNetworkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.groupNetwork.Handler.BuildRouteHandler(r.Context(), req)
	if err != nil {
		writeGroupNetworkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeGroupNetworkError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req groupnetworkhttp.CreateRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGroupNetworkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.groupNetwork.Handler.CreateRelationshipHandler(r.Context(), actorID, req)
	if err != nil {
		writeGroupNetworkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleWithdrawRelationship(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeGroupNetworkError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	relationshipID := r.PathValue("relationship_id")
	if err := s.groupNetwork.Handler.WithdrawRelationshipHandler(r.Context(), relationshipID, actorID); err != nil {
		writeGroupNetworkDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeGroupNetworkDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, groupnetworkerrors.ErrGroupNotFound),
		errors.Is(err, groupnetworkerrors.ErrRelationshipNotFound):
		writeGroupNetworkError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, groupnetworkerrors.ErrNoRouteFound):
		writeGroupNetworkError(w, http.StatusUnprocessableEntity, "no_route_found", err.Error())
	case errors.Is(err, groupnetworkerrors.ErrRelationshipExists):
		writeGroupNetworkError(w, http.StatusConflict, "relationship_exists", err.Error())
	case errors.Is(err, groupnetworkerrors.ErrInvalidGroupInput),
		errors.Is(err, groupnetworkerrors.ErrInvalidRelationshipInput):
		writeGroupNetworkError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeGroupNetworkError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGroupNetworkError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, groupnetworkhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
