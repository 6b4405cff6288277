package httpadapter

import (
	"context"
	"log/slog"

	"concord/contexts/policy-governance/revote-scheduler/application/commands"
	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	httptransport "concord/contexts/policy-governance/revote-scheduler/transport/http"
)

type Handler struct {
	Schedules commands.ScheduleUseCase
	Logger    *slog.Logger
}

func (h Handler) ScheduleRevoteHandler(ctx context.Context, req httptransport.ScheduleRevoteRequest) (httptransport.ScheduledElectionResponse, error) {
	result, err := h.Schedules.ScheduleRevote(ctx, commands.ScheduleRevoteCommand{
		PositionID: req.PositionID,
		TermStart:  req.TermStart,
	})
	if err != nil {
		return httptransport.ScheduledElectionResponse{}, err
	}
	resp := electionResponse(result.Election)
	resp.EventCreated = result.EventCreated
	return resp, nil
}

func (h Handler) CancelScheduledRevoteHandler(ctx context.Context, scheduledElectionID string) (httptransport.ScheduledElectionResponse, error) {
	election, err := h.Schedules.CancelScheduledRevote(ctx, scheduledElectionID)
	if err != nil {
		return httptransport.ScheduledElectionResponse{}, err
	}
	return electionResponse(election), nil
}

func electionResponse(election entities.ScheduledElection) httptransport.ScheduledElectionResponse {
	return httptransport.ScheduledElectionResponse{
		ScheduledElectionID: election.ScheduledElectionID,
		PositionID:          election.PositionID,
		EventID:             election.EventID,
		AgendaItemID:        election.AgendaItemID,
		ScheduledFor:        election.ScheduledFor,
		Status:              string(election.Status),
		CancelledAt:         election.CancelledAt,
	}
}
