package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/campuslabs/unionvote/internal/auth"
	"github.com/campuslabs/unionvote/internal/handlers"
	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/repository"
	"github.com/campuslabs/unionvote/internal/services"
	"github.com/campuslabs/unionvote/pkg/registry"
)

// testSetup creates all the dependencies needed for testing handlers
type testSetup struct {
	repo     *repository.Repository
	handlers *handlers.Handlers
	router   chi.Router
	log      *logger.SlogLogger
}

// newTestSetup creates a new test setup with in-memory repository
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	log := logger.New()

	registryClient := registry.NewMockClient()
	votingService := services.NewVotingService(log, repo)
	tallyService := services.NewTallyService(log, repo)
	candidateService := services.NewCandidateService(log, repo, registryClient)

	h := handlers.NewForTesting(votingService, tallyService, candidateService)
	h.Log = log

	return &testSetup{
		repo:     repo,
		handlers: h,
		router:   h.Router(),
		log:      log,
	}
}

// seedCandidate inserts a candidate and returns its id
func (s *testSetup) seedCandidate(t *testing.T, name string, post models.Post) int {
	t.Helper()
	id, err := s.repo.CreateCandidate(context.Background(), models.Candidate{
		Name:       name,
		Post:       post,
		Department: "Computer Science",
		Year:       "3rd Year",
	})
	if err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
	return int(id)
}

// castVote submits a vote through the API and fails the test on non-201
func (s *testSetup) castVote(t *testing.T, memberID string, candidateID int) {
	t.Helper()
	rec := s.doVote(memberID, candidateID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 casting vote, got %d: %s", rec.Code, rec.Body.String())
	}
}

// doVote submits a vote through the API and returns the recorder
func (s *testSetup) doVote(memberID string, candidateID int) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handlers.VoteSubmitRequest{CandidateID: candidateID})
	req := httptest.NewRequest(http.MethodPost, "/api/votes", bytes.NewReader(body))
	req.Header.Set("X-Member-ID", memberID)
	req.Header.Set("X-Member-Name", "Member "+memberID)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// adminRequest builds a request carrying the test admin key
func (s *testSetup) adminRequest(method, path string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(auth.HeaderName, "test-admin-key")
	return req
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
