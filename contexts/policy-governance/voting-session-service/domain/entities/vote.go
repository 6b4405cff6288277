package entities

import "time"

type VoteValue string

const (
	VoteValueAccept  VoteValue = "accept"
	VoteValueReject  VoteValue = "reject"
	VoteValueAbstain VoteValue = "abstain"
)

type MajorityType string

const (
	MajorityTypeSimple    MajorityType = "simple"
	MajorityTypeAbsolute  MajorityType = "absolute"
	MajorityTypeTwoThirds MajorityType = "two_thirds"
)

type SessionKind string

const (
	SessionKindAmendment SessionKind = "amendment"
	SessionKindElection  SessionKind = "election"
)

type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

type SessionResult string

const (
	SessionResultPassed   SessionResult = "passed"
	SessionResultRejected SessionResult = "rejected"
	SessionResultTie      SessionResult = "tie"
)

// Vote is one cast accept/reject/abstain decision. A voter holds at most one
// vote per session.
type Vote struct {
	VoteID    string
	SessionID string
	VoterID   string
	Value     VoteValue
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ballot is one cast candidate choice in an election session.
type Ballot struct {
	BallotID    string
	SessionID   string
	VoterID     string
	CandidateID string
	CreatedAt   time.Time
}

type VotingSession struct {
	SessionID      string
	AgendaItemID   string
	AmendmentID    string
	EventID        string
	Kind           SessionKind
	MajorityType   MajorityType
	EligibleVoters int
	QuorumPercent  float64
	Status         SessionStatus
	Result         SessionResult
	QuorumReached  bool
	OpenedAt       time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s VotingSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

func IsSupportedVoteValue(value VoteValue) bool {
	switch value {
	case VoteValueAccept, VoteValueReject, VoteValueAbstain:
		return true
	default:
		return false
	}
}

func IsSupportedMajorityType(value MajorityType) bool {
	switch value {
	case MajorityTypeSimple, MajorityTypeAbsolute, MajorityTypeTwoThirds:
		return true
	default:
		return false
	}
}

func IsSupportedSessionKind(value SessionKind) bool {
	switch value {
	case SessionKindAmendment, SessionKindElection:
		return true
	default:
		return false
	}
}
