package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuslabs/unionvote/internal/auth"
	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/pkg/registry"
)

func createTestApp(t *testing.T) *App {
	t.Helper()

	log := logger.New()
	adminAuth := auth.New("test-admin-key")
	registryClient := registry.NewMockClient()

	app, err := New(log, ":memory:", registryClient, adminAuth)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestNew_InitializesApp(t *testing.T) {
	log := logger.New()
	adminAuth := auth.New("test-admin-key")
	registryClient := registry.NewMockClient()

	app, err := New(log, ":memory:", registryClient, adminAuth)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if app == nil {
		t.Fatal("expected app to be created")
	}
	defer app.Close()

	if app.handlers == nil {
		t.Error("expected handlers to be initialized")
	}
	if app.repo == nil {
		t.Error("expected repo to be initialized")
	}
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	log := logger.New()
	adminAuth := auth.New("test-admin-key")
	registryClient := registry.NewMockClient()

	// Invalid path should fail
	_, err := New(log, "/nonexistent/path/db.sqlite", registryClient, adminAuth)

	if err == nil {
		t.Error("expected error for invalid db path")
	}
}

func TestApp_Router_ReturnsRouter(t *testing.T) {
	app := createTestApp(t)

	router := app.Router()

	if router == nil {
		t.Fatal("expected router to be returned")
	}
}

func TestApp_Router_ServesRequests(t *testing.T) {
	app := createTestApp(t)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/posts")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for /api/posts, got %d", resp.StatusCode)
	}

	var body struct {
		Posts []string `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Posts) != 8 {
		t.Errorf("expected 8 posts, got %d", len(body.Posts))
	}
}

func TestApp_Router_AdminRoutesProtected(t *testing.T) {
	app := createTestApp(t)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/admin/stats")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without admin key, got %d", resp.StatusCode)
	}
}
