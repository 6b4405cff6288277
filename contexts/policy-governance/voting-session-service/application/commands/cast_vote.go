package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/policy-governance/voting-session-service/application"
	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
	"concord/contexts/policy-governance/voting-session-service/ports"
)

// CastVoteCommand is the write-model input for an accept/reject/abstain vote.
type CastVoteCommand struct {
	VoterID        string
	IdempotencyKey string
	SessionID      string
	Value          entities.VoteValue
}

type CastVoteResult struct {
	Vote     entities.Vote
	Replayed bool
}

// CastBallotCommand casts a candidate choice in an election session.
type CastBallotCommand struct {
	VoterID        string
	IdempotencyKey string
	SessionID      string
	CandidateID    string
}

type CastBallotResult struct {
	Ballot   entities.Ballot
	Replayed bool
}

// VoteUseCase orchestrates vote capture while enforcing the session
// invariants: one vote per voter per session, open sessions only, and
// replay-safe writes via idempotency key + request hash validation.
type VoteUseCase struct {
	Sessions       ports.SessionRepository
	Votes          ports.VoteRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote cast processing started",
		"event", "voting_cast_started",
		"module", "policy-governance/voting-session-service",
		"layer", "application",
		"session_id", strings.TrimSpace(cmd.SessionID),
		"voter_id", strings.TrimSpace(cmd.VoterID),
	)
	if strings.TrimSpace(cmd.VoterID) == "" ||
		strings.TrimSpace(cmd.SessionID) == "" ||
		!entities.IsSupportedVoteValue(cmd.Value) {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CastVoteResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCastVoteCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return CastVoteResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CastVoteResult{}, domainerrors.ErrIdempotencyConflict
		}
		vote, _, err := uc.Votes.GetVoteByVoter(ctx, strings.TrimSpace(cmd.SessionID), strings.TrimSpace(cmd.VoterID))
		if err != nil {
			return CastVoteResult{}, err
		}
		return CastVoteResult{Vote: vote, Replayed: true}, nil
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return CastVoteResult{}, err
	}
	if !session.IsOpen() {
		return CastVoteResult{}, domainerrors.ErrSessionClosed
	}
	if session.Kind != entities.SessionKindAmendment {
		return CastVoteResult{}, domainerrors.ErrWrongSessionKind
	}

	if _, found, err := uc.Votes.GetVoteByVoter(ctx, session.SessionID, strings.TrimSpace(cmd.VoterID)); err != nil {
		return CastVoteResult{}, err
	} else if found {
		logger.Warn("duplicate vote rejected",
			"event", "voting_cast_duplicate",
			"module", "policy-governance/voting-session-service",
			"layer", "application",
			"session_id", session.SessionID,
			"voter_id", strings.TrimSpace(cmd.VoterID),
		)
		return CastVoteResult{}, domainerrors.ErrDuplicateVote
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote := entities.Vote{
		VoteID:    voteID,
		SessionID: session.SessionID,
		VoterID:   strings.TrimSpace(cmd.VoterID),
		Value:     cmd.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash: requestHash,
		EntityID:    vote.VoteID,
		ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
	}); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "voting_cast_recorded",
		"module", "policy-governance/voting-session-service",
		"layer", "application",
		"vote_id", vote.VoteID,
		"session_id", vote.SessionID,
		"voter_id", vote.VoterID,
		"value", string(vote.Value),
	)
	return CastVoteResult{Vote: vote}, nil
}

func (uc VoteUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.VoterID) == "" ||
		strings.TrimSpace(cmd.SessionID) == "" ||
		strings.TrimSpace(cmd.CandidateID) == "" {
		return CastBallotResult{}, domainerrors.ErrInvalidVoteInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CastBallotResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCastBallotCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return CastBallotResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CastBallotResult{}, domainerrors.ErrIdempotencyConflict
		}
		ballot, _, err := uc.Votes.GetBallotByVoter(ctx, strings.TrimSpace(cmd.SessionID), strings.TrimSpace(cmd.VoterID))
		if err != nil {
			return CastBallotResult{}, err
		}
		return CastBallotResult{Ballot: ballot, Replayed: true}, nil
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return CastBallotResult{}, err
	}
	if !session.IsOpen() {
		return CastBallotResult{}, domainerrors.ErrSessionClosed
	}
	if session.Kind != entities.SessionKindElection {
		return CastBallotResult{}, domainerrors.ErrWrongSessionKind
	}

	if _, found, err := uc.Votes.GetBallotByVoter(ctx, session.SessionID, strings.TrimSpace(cmd.VoterID)); err != nil {
		return CastBallotResult{}, err
	} else if found {
		return CastBallotResult{}, domainerrors.ErrDuplicateVote
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastBallotResult{}, err
	}
	ballot := entities.Ballot{
		BallotID:    ballotID,
		SessionID:   session.SessionID,
		VoterID:     strings.TrimSpace(cmd.VoterID),
		CandidateID: strings.TrimSpace(cmd.CandidateID),
		CreatedAt:   now,
	}
	if err := uc.Votes.SaveBallot(ctx, ballot); err != nil {
		return CastBallotResult{}, err
	}
	if err := uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash: requestHash,
		EntityID:    ballot.BallotID,
		ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
	}); err != nil {
		return CastBallotResult{}, err
	}
	logger.Info("ballot cast",
		"event", "voting_ballot_recorded",
		"module", "policy-governance/voting-session-service",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"session_id", ballot.SessionID,
		"voter_id", ballot.VoterID,
	)
	return CastBallotResult{Ballot: ballot}, nil
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc VoteUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func hashCastVoteCommand(cmd CastVoteCommand) string {
	payload := map[string]string{
		"voter_id":   strings.TrimSpace(cmd.VoterID),
		"session_id": strings.TrimSpace(cmd.SessionID),
		"value":      string(cmd.Value),
		"op":         "cast_vote",
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func hashCastBallotCommand(cmd CastBallotCommand) string {
	payload := map[string]string{
		"voter_id":     strings.TrimSpace(cmd.VoterID),
		"session_id":   strings.TrimSpace(cmd.SessionID),
		"candidate_id": strings.TrimSpace(cmd.CandidateID),
		"op":           "cast_ballot",
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
