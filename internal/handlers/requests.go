package handlers

// VoteSubmitRequest represents a request to submit a vote
type VoteSubmitRequest struct {
	CandidateID int `json:"candidate_id"`
}

// RegistrySyncRequest represents a request to sync candidates from the registry
type RegistrySyncRequest struct {
	RegistryURL string `json:"registry_url"`
}
