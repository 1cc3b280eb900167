package handlers

import (
	"net/http"
	"time"

	"github.com/campuslabs/unionvote/internal/models"
)

// handleSubmitVote handles vote submissions. The member identity comes
// from the gateway headers; the post is derived from the candidate.
func (h *Handlers) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	memberID, memberName, err := memberFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req VoteSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.CandidateID <= 0 {
		respondError(w, BadRequest("candidate_id is required"))
		return
	}

	vote, err := h.Voting.SubmitVote(r.Context(), memberID, memberName, req.CandidateID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, VoteResponse{
		VoteID:      vote.ID,
		Post:        vote.Post.String(),
		CandidateID: vote.CandidateID,
		CreatedAt:   vote.CreatedAt.Format(time.RFC3339),
	})
}

// handleMyVotes returns the calling member's recorded votes and posts
func (h *Handlers) handleMyVotes(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := memberFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	votes, err := h.Voting.MyVotes(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	posts, err := h.Voting.VotedPosts(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, MyVotesResponse{VotedPosts: posts, Votes: votes})
}

// handleGetPosts returns the ballot's fixed post enumeration
func (h *Handlers) handleGetPosts(w http.ResponseWriter, r *http.Request) {
	respondOK(w, PostsResponse{Posts: models.AllPosts})
}

// handleGetCandidates returns candidates, optionally filtered by post
func (h *Handlers) handleGetCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.Candidates.ListCandidates(r.Context(), r.URL.Query().Get("post"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, candidates)
}

// handleGetCandidate returns one candidate by id
func (h *Handlers) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	candidate, err := h.Candidates.GetCandidate(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, candidate)
}
