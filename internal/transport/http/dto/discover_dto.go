package dto

type CandidatePayload struct {
	UserID           int64                 `json:"userId"`
	Name             string                `json:"name"`
	AvatarURL        string                `json:"avatarUrl,omitempty"`
	Bio              string                `json:"bio,omitempty"`
	Fields           []string              `json:"fields,omitempty"`
	SharedEvents     []EventSummaryPayload `json:"sharedEvents"`
	SharedEventCount int                   `json:"sharedEventCount"`
}

type ExploreResponse struct {
	Candidates []CandidatePayload `json:"candidates"`
}
