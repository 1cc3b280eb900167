package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// WebSocket announcement feed
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Ballot (public)
	r.Get("/api/posts", h.handleGetPosts)
	r.Get("/api/posts/{post}/counts", h.handleGetPostCounts)
	r.Get("/api/candidates", h.handleGetCandidates)
	r.Get("/api/candidates/{id}", h.handleGetCandidate)

	// Voting (member identity required)
	r.Post("/api/votes", h.handleSubmitVote)
	r.Get("/api/votes/mine", h.handleMyVotes)

	// Announced results (public, pull for late joiners)
	r.Get("/api/results", h.handleGetResults)
	r.Get("/api/results/{post}", h.handleGetResult)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdminAPI)

		r.Post("/api/admin/results/announce/{post}", h.handleAnnounceResult)
		r.Get("/api/admin/stats", h.handleGetStats)
		r.Get("/api/admin/votes", h.handleGetVotes)
		r.Post("/api/admin/sync-registry", h.handleSyncRegistry)
		r.Post("/api/admin/seed-mock-data", h.handleSeedMockData)
	})

	return r
}
