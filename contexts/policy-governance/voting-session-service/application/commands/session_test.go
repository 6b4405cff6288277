package commands_test

import (
	"context"
	"errors"
	"testing"

	votingsession "concord/contexts/policy-governance/voting-session-service"
	"concord/contexts/policy-governance/voting-session-service/application/commands"
	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
)

func openAmendmentSession(t *testing.T, module votingsession.Module) entities.VotingSession {
	t.Helper()
	session, err := module.Handler.Sessions.OpenSession(context.Background(), commands.OpenSessionCommand{
		AgendaItemID:   "item-1",
		AmendmentID:    "amendment-1",
		EventID:        "event-1",
		Kind:           entities.SessionKindAmendment,
		MajorityType:   entities.MajorityTypeSimple,
		EligibleVoters: 10,
	})
	if err != nil {
		t.Fatalf("open session failed: %v", err)
	}
	return session
}

func TestCastVoteReplayAndDuplicate(t *testing.T) {
	module := votingsession.NewInMemoryModule(nil, nil)
	session := openAmendmentSession(t, module)

	first, err := module.Handler.Votes.CastVote(context.Background(), commands.CastVoteCommand{
		VoterID:        "voter-1",
		IdempotencyKey: "idem-1",
		SessionID:      session.SessionID,
		Value:          entities.VoteValueAccept,
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	replay, err := module.Handler.Votes.CastVote(context.Background(), commands.CastVoteCommand{
		VoterID:        "voter-1",
		IdempotencyKey: "idem-1",
		SessionID:      session.SessionID,
		Value:          entities.VoteValueAccept,
	})
	if err != nil {
		t.Fatalf("replay cast failed: %v", err)
	}
	if !replay.Replayed || replay.Vote.VoteID != first.Vote.VoteID {
		t.Fatalf("expected replayed vote %s, got %+v", first.Vote.VoteID, replay)
	}

	// Same voter with a fresh key still violates one-vote-per-session.
	_, err = module.Handler.Votes.CastVote(context.Background(), commands.CastVoteCommand{
		VoterID:        "voter-1",
		IdempotencyKey: "idem-2",
		SessionID:      session.SessionID,
		Value:          entities.VoteValueReject,
	})
	if !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote error, got %v", err)
	}
}

func TestCloseSessionTalliesAndEmitsEvent(t *testing.T) {
	module := votingsession.NewInMemoryModule(nil, nil)
	session := openAmendmentSession(t, module)

	votes := map[string]entities.VoteValue{
		"voter-1": entities.VoteValueAccept,
		"voter-2": entities.VoteValueAccept,
		"voter-3": entities.VoteValueAccept,
		"voter-4": entities.VoteValueReject,
		"voter-5": entities.VoteValueAbstain,
	}
	for voter, value := range votes {
		if _, err := module.Handler.Votes.CastVote(context.Background(), commands.CastVoteCommand{
			VoterID:        voter,
			IdempotencyKey: "idem-" + voter,
			SessionID:      session.SessionID,
			Value:          value,
		}); err != nil {
			t.Fatalf("cast vote for %s failed: %v", voter, err)
		}
	}

	result, err := module.Sessions.CloseSession(context.Background(), commands.CloseSessionCommand{
		SessionID: session.SessionID,
		ActorID:   "chair-1",
	})
	if err != nil {
		t.Fatalf("close session failed: %v", err)
	}
	if result.Result != entities.SessionResultPassed {
		t.Fatalf("expected passed, got %s", result.Result)
	}
	if !result.QuorumReached {
		t.Fatalf("expected quorum with 5 of 10 voters")
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "voting.session_closed" {
		t.Fatalf("expected one session_closed outbox row, got %+v", pending)
	}

	// Closed sessions reject further votes and repeated closes.
	if _, err := module.Handler.Votes.CastVote(context.Background(), commands.CastVoteCommand{
		VoterID:        "voter-9",
		IdempotencyKey: "idem-late",
		SessionID:      session.SessionID,
		Value:          entities.VoteValueAccept,
	}); !errors.Is(err, domainerrors.ErrSessionClosed) {
		t.Fatalf("expected session closed error, got %v", err)
	}
	if _, err := module.Sessions.CloseSession(context.Background(), commands.CloseSessionCommand{
		SessionID: session.SessionID,
	}); !errors.Is(err, domainerrors.ErrSessionAlreadyClosed) {
		t.Fatalf("expected already closed error, got %v", err)
	}
}

func TestCloseElectionSessionDeclaresWinner(t *testing.T) {
	module := votingsession.NewInMemoryModule(nil, nil)
	session, err := module.Handler.Sessions.OpenSession(context.Background(), commands.OpenSessionCommand{
		AgendaItemID:   "item-2",
		Kind:           entities.SessionKindElection,
		MajorityType:   entities.MajorityTypeSimple,
		EligibleVoters: 5,
	})
	if err != nil {
		t.Fatalf("open election session failed: %v", err)
	}

	ballots := map[string]string{
		"voter-1": "cand-a",
		"voter-2": "cand-a",
		"voter-3": "cand-b",
	}
	for voter, candidate := range ballots {
		if _, err := module.Handler.Votes.CastBallot(context.Background(), commands.CastBallotCommand{
			VoterID:        voter,
			IdempotencyKey: "idem-" + voter,
			SessionID:      session.SessionID,
			CandidateID:    candidate,
		}); err != nil {
			t.Fatalf("cast ballot for %s failed: %v", voter, err)
		}
	}

	result, err := module.Sessions.CloseSession(context.Background(), commands.CloseSessionCommand{SessionID: session.SessionID})
	if err != nil {
		t.Fatalf("close election failed: %v", err)
	}
	if result.Election.WinnerID != "cand-a" || result.Result != entities.SessionResultPassed {
		t.Fatalf("expected cand-a winner, got %+v", result)
	}
}
