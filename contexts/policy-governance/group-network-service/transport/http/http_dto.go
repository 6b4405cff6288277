package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RouteRequest struct {
	OriginGroupIDs []string `json:"origin_group_ids"`
	TargetGroupID  string   `json:"target_group_id"`
	MaxDepth       int      `json:"max_depth,omitempty"`
}

type PathStepResponse struct {
	GroupID  string `json:"group_id"`
	Relation string `json:"relation"`
	Distance int    `json:"distance"`
}

type RouteResponse struct {
	Steps []PathStepResponse `json:"steps"`
}

type AllRoutesResponse struct {
	Routes [][]PathStepResponse `json:"routes"`
}

type RouteSegmentResponse struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	GroupID    string `json:"group_id"`
	Status     string `json:"status"`
}

type BuildRouteResponse struct {
	Segments []RouteSegmentResponse `json:"segments"`
}

type CreateRelationshipRequest struct {
	ParentGroupID string `json:"parent_group_id"`
	ChildGroupID  string `json:"child_group_id"`
	Right         string `json:"right"`
}

type RelationshipResponse struct {
	RelationshipID string `json:"relationship_id"`
	ParentGroupID  string `json:"parent_group_id"`
	ChildGroupID   string `json:"child_group_id"`
	Right          string `json:"right"`
}
