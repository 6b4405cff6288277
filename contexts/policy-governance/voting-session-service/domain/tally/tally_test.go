package tally

import (
	"testing"

	"concord/contexts/policy-governance/voting-session-service/domain/entities"
)

func votesFor(accept, reject, abstain int) []entities.Vote {
	var votes []entities.Vote
	for i := 0; i < accept; i++ {
		votes = append(votes, entities.Vote{Value: entities.VoteValueAccept})
	}
	for i := 0; i < reject; i++ {
		votes = append(votes, entities.Vote{Value: entities.VoteValueReject})
	}
	for i := 0; i < abstain; i++ {
		votes = append(votes, entities.Vote{Value: entities.VoteValueAbstain})
	}
	return votes
}

func TestCountVotesPartitionsByValue(t *testing.T) {
	count := CountVotes(votesFor(3, 2, 1))
	if count.Accept != 3 || count.Reject != 2 || count.Abstain != 1 || count.Total != 6 {
		t.Fatalf("unexpected count: %+v", count)
	}
}

func TestCalculateMajorityTieBeforeThresholds(t *testing.T) {
	for _, majority := range []entities.MajorityType{
		entities.MajorityTypeSimple,
		entities.MajorityTypeAbsolute,
		entities.MajorityTypeTwoThirds,
	} {
		result, err := CalculateMajority(votesFor(4, 4, 2), majority, 10)
		if err != nil {
			t.Fatalf("majority %s failed: %v", majority, err)
		}
		if result != entities.SessionResultTie {
			t.Fatalf("majority %s: expected tie, got %s", majority, result)
		}
	}
	// Empty vote sets draw at zero.
	result, err := CalculateMajority(nil, entities.MajorityTypeSimple, 10)
	if err != nil {
		t.Fatalf("empty vote set failed: %v", err)
	}
	if result != entities.SessionResultTie {
		t.Fatalf("expected tie for empty vote set, got %s", result)
	}
}

func TestCalculateMajorityThresholds(t *testing.T) {
	cases := []struct {
		name     string
		accept   int
		reject   int
		eligible int
		majority entities.MajorityType
		want     entities.SessionResult
	}{
		{"simple pass", 3, 2, 10, entities.MajorityTypeSimple, entities.SessionResultPassed},
		{"simple reject", 2, 3, 10, entities.MajorityTypeSimple, entities.SessionResultRejected},
		{"absolute pass", 6, 4, 10, entities.MajorityTypeAbsolute, entities.SessionResultPassed},
		{"absolute draw is tie", 5, 5, 10, entities.MajorityTypeAbsolute, entities.SessionResultTie},
		{"absolute below half", 4, 3, 10, entities.MajorityTypeAbsolute, entities.SessionResultRejected},
		{"two thirds pass", 7, 2, 10, entities.MajorityTypeTwoThirds, entities.SessionResultPassed},
		{"two thirds below threshold", 6, 3, 10, entities.MajorityTypeTwoThirds, entities.SessionResultRejected},
		{"two thirds exact", 8, 1, 12, entities.MajorityTypeTwoThirds, entities.SessionResultPassed},
	}
	for _, tc := range cases {
		result, err := CalculateMajority(votesFor(tc.accept, tc.reject, 0), tc.majority, tc.eligible)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if result != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, result)
		}
	}
}

func TestCalculateMajorityUnknownType(t *testing.T) {
	if _, err := CalculateMajority(votesFor(2, 1, 0), entities.MajorityType("plurality"), 10); err == nil {
		t.Fatalf("expected error for unknown majority type")
	}
}

func TestIsQuorumReached(t *testing.T) {
	if !IsQuorumReached(5, 10, 50) {
		t.Fatalf("expected quorum at exactly 50 percent")
	}
	if IsQuorumReached(4, 10, 50) {
		t.Fatalf("expected no quorum below 50 percent")
	}
	if IsQuorumReached(10, 0, 50) {
		t.Fatalf("expected no quorum with zero eligible voters")
	}
}

func ballotsFor(counts map[string]int) []entities.Ballot {
	var ballots []entities.Ballot
	for candidate, n := range counts {
		for i := 0; i < n; i++ {
			ballots = append(ballots, entities.Ballot{CandidateID: candidate})
		}
	}
	return ballots
}

func TestCalculateElectionWinnerSimple(t *testing.T) {
	outcome, err := CalculateElectionWinner(ballotsFor(map[string]int{"cand-a": 4, "cand-b": 2}), entities.MajorityTypeSimple, 10)
	if err != nil {
		t.Fatalf("election failed: %v", err)
	}
	if outcome.IsTie || outcome.WinnerID != "cand-a" {
		t.Fatalf("expected cand-a winner, got %+v", outcome)
	}
}

func TestCalculateElectionWinnerTie(t *testing.T) {
	outcome, err := CalculateElectionWinner(ballotsFor(map[string]int{"cand-a": 3, "cand-b": 3}), entities.MajorityTypeSimple, 10)
	if err != nil {
		t.Fatalf("election failed: %v", err)
	}
	if !outcome.IsTie || outcome.WinnerID != "" {
		t.Fatalf("expected tie with no winner, got %+v", outcome)
	}
}

func TestCalculateElectionWinnerAbsoluteThreshold(t *testing.T) {
	// Leader with 4 of 10 eligible misses an absolute majority.
	outcome, err := CalculateElectionWinner(ballotsFor(map[string]int{"cand-a": 4, "cand-b": 2}), entities.MajorityTypeAbsolute, 10)
	if err != nil {
		t.Fatalf("election failed: %v", err)
	}
	if outcome.IsTie || outcome.WinnerID != "" {
		t.Fatalf("expected no winner without absolute majority, got %+v", outcome)
	}

	outcome, err = CalculateElectionWinner(ballotsFor(map[string]int{"cand-a": 6, "cand-b": 2}), entities.MajorityTypeAbsolute, 10)
	if err != nil {
		t.Fatalf("election failed: %v", err)
	}
	if outcome.WinnerID != "cand-a" {
		t.Fatalf("expected cand-a with absolute majority, got %+v", outcome)
	}
}

func TestCalculateElectionWinnerNoBallots(t *testing.T) {
	outcome, err := CalculateElectionWinner(nil, entities.MajorityTypeSimple, 10)
	if err != nil {
		t.Fatalf("election failed: %v", err)
	}
	if outcome.IsTie || outcome.WinnerID != "" {
		t.Fatalf("expected empty outcome, got %+v", outcome)
	}
}
