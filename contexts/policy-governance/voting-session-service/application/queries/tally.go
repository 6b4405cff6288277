package queries

import (
	"context"

	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	"concord/contexts/policy-governance/voting-session-service/domain/tally"
	"concord/contexts/policy-governance/voting-session-service/ports"
)

type SessionTally struct {
	Session       entities.VotingSession
	Count         tally.VoteCount
	QuorumReached bool
	Election      tally.ElectionOutcome
}

// TallyUseCase exposes read-side tallies for open and closed sessions.
type TallyUseCase struct {
	Sessions ports.SessionRepository
	Votes    ports.VoteRepository
}

func (uc TallyUseCase) SessionTally(ctx context.Context, sessionID string) (SessionTally, error) {
	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return SessionTally{}, err
	}

	result := SessionTally{Session: session}
	switch session.Kind {
	case entities.SessionKindElection:
		ballots, err := uc.Votes.ListBallotsBySession(ctx, session.SessionID)
		if err != nil {
			return SessionTally{}, err
		}
		result.Election, err = tally.CalculateElectionWinner(ballots, session.MajorityType, session.EligibleVoters)
		if err != nil {
			return SessionTally{}, err
		}
		result.QuorumReached = tally.IsQuorumReached(len(ballots), session.EligibleVoters, session.QuorumPercent)
	default:
		votes, err := uc.Votes.ListVotesBySession(ctx, session.SessionID)
		if err != nil {
			return SessionTally{}, err
		}
		result.Count = tally.CountVotes(votes)
		result.QuorumReached = tally.IsQuorumReached(result.Count.Total, session.EligibleVoters, session.QuorumPercent)
	}
	return result, nil
}
