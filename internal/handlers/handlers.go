package handlers

import (
	"github.com/campuslabs/unionvote/internal/auth"
	"github.com/campuslabs/unionvote/internal/services"
	"github.com/campuslabs/unionvote/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Voting     services.VotingServicer
	Tally      services.TallyServicer
	Candidates services.CandidateServicer
	Auth       *auth.Auth
	Hub        *websocket.Hub
	Log        HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	voting services.VotingServicer,
	tally services.TallyServicer,
	candidates services.CandidateServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Voting:     voting,
		Tally:      tally,
		Candidates: candidates,
		Auth:       adminAuth,
		Hub:        hub,
		Log:        log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin key and no hub
func NewForTesting(
	voting services.VotingServicer,
	tally services.TallyServicer,
	candidates services.CandidateServicer,
) *Handlers {
	return &Handlers{
		Voting:     voting,
		Tally:      tally,
		Candidates: candidates,
		Auth:       auth.New("test-admin-key"),
		Log:        NoopHTTPLogger{},
		// Hub left nil - API tests don't open websockets
	}
}
