package httpadapter

import (
	"context"
	"log/slog"

	"concord/contexts/policy-governance/voting-session-service/application/commands"
	"concord/contexts/policy-governance/voting-session-service/application/queries"
	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	httptransport "concord/contexts/policy-governance/voting-session-service/transport/http"
)

type Handler struct {
	Sessions commands.SessionUseCase
	Votes    commands.VoteUseCase
	Tallies  queries.TallyUseCase
	Logger   *slog.Logger
}

func (h Handler) OpenSessionHandler(ctx context.Context, req httptransport.OpenSessionRequest) (httptransport.SessionResponse, error) {
	session, err := h.Sessions.OpenSession(ctx, commands.OpenSessionCommand{
		AgendaItemID:   req.AgendaItemID,
		AmendmentID:    req.AmendmentID,
		EventID:        req.EventID,
		Kind:           entities.SessionKind(req.Kind),
		MajorityType:   entities.MajorityType(req.MajorityType),
		EligibleVoters: req.EligibleVoters,
		QuorumPercent:  req.QuorumPercent,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return sessionResponse(session), nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	voterID string,
	idempotencyKey string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	if req.CandidateID != "" {
		result, err := h.Votes.CastBallot(ctx, commands.CastBallotCommand{
			VoterID:        voterID,
			IdempotencyKey: idempotencyKey,
			SessionID:      req.SessionID,
			CandidateID:    req.CandidateID,
		})
		if err != nil {
			return httptransport.VoteResponse{}, err
		}
		return httptransport.VoteResponse{
			VoteID:    result.Ballot.BallotID,
			SessionID: result.Ballot.SessionID,
			VoterID:   result.Ballot.VoterID,
			Replayed:  result.Replayed,
		}, nil
	}

	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		VoterID:        voterID,
		IdempotencyKey: idempotencyKey,
		SessionID:      req.SessionID,
		Value:          entities.VoteValue(req.Value),
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:    result.Vote.VoteID,
		SessionID: result.Vote.SessionID,
		VoterID:   result.Vote.VoterID,
		Value:     string(result.Vote.Value),
		Replayed:  result.Replayed,
	}, nil
}

func (h Handler) CloseSessionHandler(ctx context.Context, sessionID string, actorID string) (httptransport.CloseSessionResponse, error) {
	result, err := h.Sessions.CloseSession(ctx, commands.CloseSessionCommand{
		SessionID: sessionID,
		ActorID:   actorID,
	})
	if err != nil {
		return httptransport.CloseSessionResponse{}, err
	}
	resp := httptransport.CloseSessionResponse{
		SessionID:     result.Session.SessionID,
		AgendaItemID:  result.Session.AgendaItemID,
		Result:        string(result.Result),
		QuorumReached: result.QuorumReached,
		Accept:        result.Count.Accept,
		Reject:        result.Count.Reject,
		Abstain:       result.Count.Abstain,
		WinnerID:      result.Election.WinnerID,
		IsTie:         result.Election.IsTie,
	}
	for _, count := range result.Election.Counts {
		resp.Candidates = append(resp.Candidates, httptransport.CandidateSummary{
			CandidateID: count.CandidateID,
			Votes:       count.Votes,
		})
	}
	return resp, nil
}

func (h Handler) SessionTallyHandler(ctx context.Context, sessionID string) (httptransport.SessionTallyResponse, error) {
	result, err := h.Tallies.SessionTally(ctx, sessionID)
	if err != nil {
		return httptransport.SessionTallyResponse{}, err
	}
	resp := httptransport.SessionTallyResponse{
		SessionID:     result.Session.SessionID,
		Status:        string(result.Session.Status),
		Accept:        result.Count.Accept,
		Reject:        result.Count.Reject,
		Abstain:       result.Count.Abstain,
		Total:         result.Count.Total,
		QuorumReached: result.QuorumReached,
		WinnerID:      result.Election.WinnerID,
		IsTie:         result.Election.IsTie,
	}
	for _, count := range result.Election.Counts {
		resp.Candidates = append(resp.Candidates, httptransport.CandidateSummary{
			CandidateID: count.CandidateID,
			Votes:       count.Votes,
		})
	}
	return resp, nil
}

func sessionResponse(session entities.VotingSession) httptransport.SessionResponse {
	return httptransport.SessionResponse{
		SessionID:      session.SessionID,
		AgendaItemID:   session.AgendaItemID,
		AmendmentID:    session.AmendmentID,
		EventID:        session.EventID,
		Kind:           string(session.Kind),
		MajorityType:   string(session.MajorityType),
		EligibleVoters: session.EligibleVoters,
		QuorumPercent:  session.QuorumPercent,
		Status:         string(session.Status),
		Result:         string(session.Result),
		QuorumReached:  session.QuorumReached,
	}
}
