package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	amendment "concord/contexts/policy-governance/amendment-service"
	event "concord/contexts/policy-governance/event-service"
	groupnetwork "concord/contexts/policy-governance/group-network-service"
	revote "concord/contexts/policy-governance/revote-scheduler"
	votingsession "concord/contexts/policy-governance/voting-session-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "concord/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	voting       votingsession.Module
	groupNetwork groupnetwork.Module
	amendments   amendment.Module
	events       event.Module
	revotes      revote.Module
}

func New(
	votingModule votingsession.Module,
	groupNetworkModule groupnetwork.Module,
	amendmentModule amendment.Module,
	eventModule event.Module,
	revoteModule revote.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		voting:       votingModule,
		groupNetwork: groupNetworkModule,
		amendments:   amendmentModule,
		events:       eventModule,
		revotes:      revoteModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/voting/v1/sessions", s.handleOpenSession)
	s.mux.HandleFunc("POST /api/voting/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /api/voting/v1/sessions/{session_id}/close", s.handleCloseSession)
	s.mux.HandleFunc("GET /api/voting/v1/sessions/{session_id}/tally", s.handleSessionTally)

	s.mux.HandleFunc("POST /api/groups/v1/routes/shortest", s.handleShortestRoute)
	s.mux.HandleFunc("POST /api/groups/v1/routes/all", s.handleAllRoutes)
	s.mux.HandleFunc("POST /api/groups/v1/routes/build", s.handleBuildRoute)
	s.mux.HandleFunc("POST /api/groups/v1/relationships", s.handleCreateRelationship)
	s.mux.HandleFunc("DELETE /api/groups/v1/relationships/{relationship_id}", s.handleWithdrawRelationship)

	s.mux.HandleFunc("POST /api/amendments/v1/amendments", s.handleSubmitAmendment)
	s.mux.HandleFunc("POST /api/amendments/v1/amendments/{amendment_id}/transition", s.handleTransitionAmendment)
	s.mux.HandleFunc("GET /api/amendments/v1/amendments/{amendment_id}", s.handleGetAmendment)

	s.mux.HandleFunc("POST /api/events/v1/events", s.handleCreateEvent)
	s.mux.HandleFunc("POST /api/events/v1/agenda-items", s.handleCreateAgendaItem)
	s.mux.HandleFunc("GET /api/events/v1/events/{event_id}/cancellation-check", s.handleValidateCancellation)
	s.mux.HandleFunc("POST /api/events/v1/events/{event_id}/cancel", s.handleCancelEvent)
	s.mux.HandleFunc("GET /api/events/v1/events/{event_id}/agenda", s.handleEventAgenda)

	s.mux.HandleFunc("POST /api/elections/v1/revotes", s.handleScheduleRevote)
	s.mux.HandleFunc("POST /api/elections/v1/revotes/{scheduled_election_id}/cancel", s.handleCancelRevote)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
