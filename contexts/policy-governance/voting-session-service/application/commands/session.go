package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/policy-governance/voting-session-service/application"
	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
	"concord/contexts/policy-governance/voting-session-service/domain/tally"
	"concord/contexts/policy-governance/voting-session-service/ports"
)

type OpenSessionCommand struct {
	AgendaItemID   string
	AmendmentID    string
	EventID        string
	Kind           entities.SessionKind
	MajorityType   entities.MajorityType
	EligibleVoters int
	QuorumPercent  float64
}

type CloseSessionCommand struct {
	SessionID string
	ActorID   string
}

// CloseSessionResult is the tallied outcome handed back to the caller and
// mirrored into the session-closed event consumed by the outcome dispatcher.
type CloseSessionResult struct {
	Session       entities.VotingSession
	Count         tally.VoteCount
	Result        entities.SessionResult
	QuorumReached bool
	Election      tally.ElectionOutcome
}

// SessionUseCase owns session lifecycle: open sessions accept votes, closing
// tallies them once and publishes the result.
type SessionUseCase struct {
	Sessions ports.SessionRepository
	Votes    ports.VoteRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc SessionUseCase) OpenSession(ctx context.Context, cmd OpenSessionCommand) (entities.VotingSession, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.AgendaItemID) == "" ||
		!entities.IsSupportedSessionKind(cmd.Kind) ||
		!entities.IsSupportedMajorityType(cmd.MajorityType) ||
		cmd.EligibleVoters < 0 {
		return entities.VotingSession{}, domainerrors.ErrInvalidSessionInput
	}

	now := uc.now()
	sessionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.VotingSession{}, err
	}
	quorum := cmd.QuorumPercent
	if quorum <= 0 {
		quorum = tally.DefaultQuorumPercent
	}
	session := entities.VotingSession{
		SessionID:      sessionID,
		AgendaItemID:   strings.TrimSpace(cmd.AgendaItemID),
		AmendmentID:    strings.TrimSpace(cmd.AmendmentID),
		EventID:        strings.TrimSpace(cmd.EventID),
		Kind:           cmd.Kind,
		MajorityType:   cmd.MajorityType,
		EligibleVoters: cmd.EligibleVoters,
		QuorumPercent:  quorum,
		Status:         entities.SessionStatusOpen,
		OpenedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.Sessions.SaveSession(ctx, session); err != nil {
		return entities.VotingSession{}, err
	}
	logger.Info("voting session opened",
		"event", "voting_session_opened",
		"module", "policy-governance/voting-session-service",
		"layer", "application",
		"session_id", session.SessionID,
		"agenda_item_id", session.AgendaItemID,
		"kind", string(session.Kind),
		"majority_type", string(session.MajorityType),
	)
	return session, nil
}

// CloseSession tallies the session and stores the result. Closing an already
// closed session fails rather than recomputing; the stored result is the
// record of truth.
func (uc SessionUseCase) CloseSession(ctx context.Context, cmd CloseSessionCommand) (CloseSessionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return CloseSessionResult{}, err
	}
	if !session.IsOpen() {
		return CloseSessionResult{}, domainerrors.ErrSessionAlreadyClosed
	}

	now := uc.now()
	result := CloseSessionResult{}

	switch session.Kind {
	case entities.SessionKindAmendment:
		votes, err := uc.Votes.ListVotesBySession(ctx, session.SessionID)
		if err != nil {
			return CloseSessionResult{}, err
		}
		result.Count = tally.CountVotes(votes)
		result.Result, err = tally.CalculateMajority(votes, session.MajorityType, session.EligibleVoters)
		if err != nil {
			return CloseSessionResult{}, err
		}
		result.QuorumReached = tally.IsQuorumReached(result.Count.Total, session.EligibleVoters, session.QuorumPercent)
	case entities.SessionKindElection:
		ballots, err := uc.Votes.ListBallotsBySession(ctx, session.SessionID)
		if err != nil {
			return CloseSessionResult{}, err
		}
		result.Election, err = tally.CalculateElectionWinner(ballots, session.MajorityType, session.EligibleVoters)
		if err != nil {
			return CloseSessionResult{}, err
		}
		result.QuorumReached = tally.IsQuorumReached(len(ballots), session.EligibleVoters, session.QuorumPercent)
		switch {
		case result.Election.IsTie:
			result.Result = entities.SessionResultTie
		case result.Election.WinnerID != "":
			result.Result = entities.SessionResultPassed
		default:
			result.Result = entities.SessionResultRejected
		}
	default:
		return CloseSessionResult{}, domainerrors.ErrInvalidSessionInput
	}

	session.Status = entities.SessionStatusClosed
	session.Result = result.Result
	session.QuorumReached = result.QuorumReached
	session.ClosedAt = &now
	session.UpdatedAt = now
	if err := uc.Sessions.SaveSession(ctx, session); err != nil {
		return CloseSessionResult{}, err
	}
	result.Session = session

	if err := uc.appendSessionClosedEvent(ctx, session, result, now); err != nil {
		return CloseSessionResult{}, err
	}

	logger.Info("voting session closed",
		"event", "voting_session_closed",
		"module", "policy-governance/voting-session-service",
		"layer", "application",
		"session_id", session.SessionID,
		"agenda_item_id", session.AgendaItemID,
		"result", string(result.Result),
		"quorum_reached", result.QuorumReached,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return result, nil
}

func (uc SessionUseCase) appendSessionClosedEvent(
	ctx context.Context,
	session entities.VotingSession,
	result CloseSessionResult,
	occurredAt time.Time,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"session_id":     session.SessionID,
		"agenda_item_id": session.AgendaItemID,
		"amendment_id":   session.AmendmentID,
		"event_id":       session.EventID,
		"kind":           string(session.Kind),
		"result":         string(result.Result),
		"quorum_reached": result.QuorumReached,
		"accept":         result.Count.Accept,
		"reject":         result.Count.Reject,
		"abstain":        result.Count.Abstain,
		"winner_id":      result.Election.WinnerID,
		"occurred_at":    occurredAt.Format(time.RFC3339),
	}
	envelope, err := newVotingEnvelope(eventID, "voting.session_closed", session.AgendaItemID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc SessionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
