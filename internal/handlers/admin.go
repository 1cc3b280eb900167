package handlers

import (
	"net/http"
)

// handleAnnounceResult computes and announces the winner for a post.
// Re-announcing recomputes and overwrites the stored result.
func (h *Handlers) handleAnnounceResult(w http.ResponseWriter, r *http.Request) {
	post, err := postFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Tally.Announce(r.Context(), post)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleGetStats returns the admin dashboard statistics
func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Tally.GetElectionStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}

// handleGetVotes returns the full vote ledger with member and candidate detail
func (h *Handlers) handleGetVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.Voting.AllVotes(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, votes)
}

// handleSyncRegistry pulls the candidate roster from the campus registry
func (h *Handlers) handleSyncRegistry(w http.ResponseWriter, r *http.Request) {
	var req RegistrySyncRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Candidates.SyncFromRegistry(r.Context(), req.RegistryURL)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, SyncResponse{
		Status:  result.Status,
		Message: result.Message,
		Synced:  result.Synced,
		Skipped: result.Skipped,
	})
}

// handleSeedMockData populates the roster with demo candidates
func (h *Handlers) handleSeedMockData(w http.ResponseWriter, r *http.Request) {
	created, err := h.Candidates.SeedMockCandidates(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SeedResponse{Created: created, Message: "Mock candidates seeded"})
}
