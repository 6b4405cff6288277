package tally

import (
	"math"
	"sort"

	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/voting-session-service/domain/errors"
)

// DefaultQuorumPercent applies when a session does not configure its own
// participation threshold.
const DefaultQuorumPercent = 50.0

type VoteCount struct {
	Accept  int
	Reject  int
	Abstain int
	Total   int
}

type CandidateCount struct {
	CandidateID string
	Votes       int
}

// ElectionOutcome reports the winner of an election tally, or the absence of
// one. IsTie is set when more than one candidate shares the maximum count.
type ElectionOutcome struct {
	WinnerID string
	IsTie    bool
	Counts   []CandidateCount
}

// CountVotes partitions votes by value.
func CountVotes(votes []entities.Vote) VoteCount {
	var count VoteCount
	for _, vote := range votes {
		switch vote.Value {
		case entities.VoteValueAccept:
			count.Accept++
		case entities.VoteValueReject:
			count.Reject++
		case entities.VoteValueAbstain:
			count.Abstain++
		}
	}
	count.Total = count.Accept + count.Reject + count.Abstain
	return count
}

// CalculateMajority decides passed/rejected/tie for a closed vote set. An
// accept/reject draw is a tie for every majority type, checked before any
// threshold logic.
func CalculateMajority(
	votes []entities.Vote,
	majorityType entities.MajorityType,
	eligibleVoters int,
) (entities.SessionResult, error) {
	count := CountVotes(votes)
	if count.Accept == count.Reject {
		return entities.SessionResultTie, nil
	}

	switch majorityType {
	case entities.MajorityTypeSimple:
		if count.Accept > count.Reject {
			return entities.SessionResultPassed, nil
		}
		return entities.SessionResultRejected, nil
	case entities.MajorityTypeAbsolute:
		if float64(count.Accept) > float64(eligibleVoters)/2 {
			return entities.SessionResultPassed, nil
		}
		return entities.SessionResultRejected, nil
	case entities.MajorityTypeTwoThirds:
		if count.Accept >= twoThirdsThreshold(eligibleVoters) {
			return entities.SessionResultPassed, nil
		}
		return entities.SessionResultRejected, nil
	default:
		return "", domainerrors.ErrUnknownMajorityType
	}
}

// IsQuorumReached reports whether participation clears the percentage
// threshold. Zero eligible voters never reach quorum.
func IsQuorumReached(votedCount int, eligibleVoters int, quorumPercent float64) bool {
	if eligibleVoters <= 0 {
		return false
	}
	return float64(votedCount)/float64(eligibleVoters)*100 >= quorumPercent
}

// CalculateElectionWinner tallies ballots per candidate. Under absolute and
// two-thirds rules the leader must additionally clear the same thresholds as
// an amendment vote, otherwise no winner is declared even without a tie.
func CalculateElectionWinner(
	ballots []entities.Ballot,
	majorityType entities.MajorityType,
	eligibleVoters int,
) (ElectionOutcome, error) {
	if !entities.IsSupportedMajorityType(majorityType) {
		return ElectionOutcome{}, domainerrors.ErrUnknownMajorityType
	}

	perCandidate := make(map[string]int)
	for _, ballot := range ballots {
		perCandidate[ballot.CandidateID]++
	}

	counts := make([]CandidateCount, 0, len(perCandidate))
	for candidateID, votes := range perCandidate {
		counts = append(counts, CandidateCount{CandidateID: candidateID, Votes: votes})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Votes != counts[j].Votes {
			return counts[i].Votes > counts[j].Votes
		}
		return counts[i].CandidateID < counts[j].CandidateID
	})

	outcome := ElectionOutcome{Counts: counts}
	if len(counts) == 0 || counts[0].Votes == 0 {
		return outcome, nil
	}
	if len(counts) > 1 && counts[1].Votes == counts[0].Votes {
		outcome.IsTie = true
		return outcome, nil
	}

	leader := counts[0]
	switch majorityType {
	case entities.MajorityTypeAbsolute:
		if float64(leader.Votes) <= float64(eligibleVoters)/2 {
			return outcome, nil
		}
	case entities.MajorityTypeTwoThirds:
		if leader.Votes < twoThirdsThreshold(eligibleVoters) {
			return outcome, nil
		}
	}
	outcome.WinnerID = leader.CandidateID
	return outcome, nil
}

func twoThirdsThreshold(eligibleVoters int) int {
	return int(math.Ceil(2 * float64(eligibleVoters) / 3))
}
