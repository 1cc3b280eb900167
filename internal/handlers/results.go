package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/services"
)

// postFromRequest parses the {post} URL parameter against the closed set
func postFromRequest(r *http.Request) (models.Post, error) {
	raw := chi.URLParam(r, "post")
	if raw == "" {
		return "", BadRequest("Missing post parameter")
	}
	post, err := models.ParsePost(raw)
	if err != nil {
		return "", services.ErrUnknownPost
	}
	return post, nil
}

// handleGetResults returns every announced result
func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.Tally.ListResults(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, results)
}

// handleGetResult returns the announced result for one post. Announcements
// are not replayed over the websocket; late joiners read them here.
func (h *Handlers) handleGetResult(w http.ResponseWriter, r *http.Request) {
	post, err := postFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Tally.GetResult(r.Context(), post)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleGetPostCounts returns the live ranked tally for one post
func (h *Handlers) handleGetPostCounts(w http.ResponseWriter, r *http.Request) {
	post, err := postFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	stats, err := h.Tally.GetPostStats(r.Context(), post)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}
