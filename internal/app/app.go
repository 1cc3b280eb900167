package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuslabs/unionvote/internal/auth"
	"github.com/campuslabs/unionvote/internal/handlers"
	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/internal/repository"
	"github.com/campuslabs/unionvote/internal/services"
	"github.com/campuslabs/unionvote/internal/websocket"
	"github.com/campuslabs/unionvote/pkg/registry"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
}

// New creates and initializes a new application instance
func New(log logger.Logger, dbPath string, registryClient registry.Client, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	votingService := services.NewVotingService(log, repo)
	tallyService := services.NewTallyService(log, repo)
	candidateService := services.NewCandidateService(log, repo, registryClient)

	// Initialize WebSocket hub and wire it as the announcement publisher
	hub := websocket.New(log)
	hub.Start()
	tallyService.SetBroadcaster(hub)

	h := handlers.New(
		votingService,
		tallyService,
		candidateService,
		adminAuth,
		hub,
		log,
	)

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	a.log.Info("Server starting", "addr", addr)
	return http.ListenAndServe(addr, a.Router())
}
