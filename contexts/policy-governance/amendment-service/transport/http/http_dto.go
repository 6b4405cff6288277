package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitAmendmentRequest struct {
	Title          string   `json:"title"`
	Body           string   `json:"body,omitempty"`
	OwningGroupID  string   `json:"owning_group_id"`
	TargetGroupID  string   `json:"target_group_id"`
	MemberGroupIDs []string `json:"member_group_ids,omitempty"`
}

type TransitionRequest struct {
	Target string `json:"target"`
}

type PathSegmentResponse struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	GroupID    string `json:"group_id"`
	Status     string `json:"status"`
}

type AmendmentResponse struct {
	AmendmentID       string                `json:"amendment_id"`
	Title             string                `json:"title"`
	AuthorID          string                `json:"author_id"`
	OwningGroupID     string                `json:"owning_group_id"`
	TargetGroupID     string                `json:"target_group_id"`
	WorkflowStatus    string                `json:"workflow_status"`
	PathStatus        string                `json:"path_status"`
	PathInvalidReason string                `json:"path_invalid_reason,omitempty"`
	PendingForGroupID string                `json:"pending_for_group_id,omitempty"`
	PathSegments      []PathSegmentResponse `json:"path_segments"`
	LegalTargets      []string              `json:"legal_targets,omitempty"`
	Replayed          bool                  `json:"replayed,omitempty"`
}
