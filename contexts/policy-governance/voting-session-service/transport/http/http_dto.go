package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OpenSessionRequest struct {
	AgendaItemID   string  `json:"agenda_item_id"`
	AmendmentID    string  `json:"amendment_id,omitempty"`
	EventID        string  `json:"event_id,omitempty"`
	Kind           string  `json:"kind"`
	MajorityType   string  `json:"majority_type"`
	EligibleVoters int     `json:"eligible_voters"`
	QuorumPercent  float64 `json:"quorum_percent,omitempty"`
}

type SessionResponse struct {
	SessionID      string  `json:"session_id"`
	AgendaItemID   string  `json:"agenda_item_id"`
	AmendmentID    string  `json:"amendment_id,omitempty"`
	EventID        string  `json:"event_id,omitempty"`
	Kind           string  `json:"kind"`
	MajorityType   string  `json:"majority_type"`
	EligibleVoters int     `json:"eligible_voters"`
	QuorumPercent  float64 `json:"quorum_percent"`
	Status         string  `json:"status"`
	Result         string  `json:"result,omitempty"`
	QuorumReached  bool    `json:"quorum_reached"`
}

type CastVoteRequest struct {
	SessionID   string `json:"session_id"`
	Value       string `json:"value,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
}

type VoteResponse struct {
	VoteID    string `json:"vote_id"`
	SessionID string `json:"session_id"`
	VoterID   string `json:"voter_id"`
	Value     string `json:"value"`
	Replayed  bool   `json:"replayed"`
}

type CloseSessionResponse struct {
	SessionID     string             `json:"session_id"`
	AgendaItemID  string             `json:"agenda_item_id"`
	Result        string             `json:"result"`
	QuorumReached bool               `json:"quorum_reached"`
	Accept        int                `json:"accept"`
	Reject        int                `json:"reject"`
	Abstain       int                `json:"abstain"`
	WinnerID      string             `json:"winner_id,omitempty"`
	IsTie         bool               `json:"is_tie"`
	Candidates    []CandidateSummary `json:"candidates,omitempty"`
}

type CandidateSummary struct {
	CandidateID string `json:"candidate_id"`
	Votes       int    `json:"votes"`
}

type SessionTallyResponse struct {
	SessionID     string             `json:"session_id"`
	Status        string             `json:"status"`
	Accept        int                `json:"accept"`
	Reject        int                `json:"reject"`
	Abstain       int                `json:"abstain"`
	Total         int                `json:"total"`
	QuorumReached bool               `json:"quorum_reached"`
	WinnerID      string             `json:"winner_id,omitempty"`
	IsTie         bool               `json:"is_tie"`
	Candidates    []CandidateSummary `json:"candidates,omitempty"`
}
