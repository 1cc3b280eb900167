package handlers

import "github.com/campuslabs/unionvote/internal/models"

// VoteResponse is the JSON response for a recorded vote
type VoteResponse struct {
	VoteID      string `json:"vote_id"`
	Post        string `json:"post"`
	CandidateID int    `json:"candidate_id"`
	CreatedAt   string `json:"created_at"`
}

// MyVotesResponse lists the posts a member has already voted for along
// with the recorded votes
type MyVotesResponse struct {
	VotedPosts []models.Post `json:"voted_posts"`
	Votes      []models.Vote `json:"votes"`
}

// PostsResponse is the fixed ballot enumeration
type PostsResponse struct {
	Posts []models.Post `json:"posts"`
}

// SyncResponse is the response for a registry sync
type SyncResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
}

// SeedResponse is the response for seeding mock candidates
type SeedResponse struct {
	Created int    `json:"created"`
	Message string `json:"message"`
}
