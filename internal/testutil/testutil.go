package testutil

import (
	"context"
	"testing"

	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedCandidate inserts a candidate and returns its id
func SeedCandidate(t *testing.T, repo *repository.Repository, name string, post models.Post) int {
	t.Helper()

	id, err := repo.CreateCandidate(context.Background(), models.Candidate{
		Name:       name,
		Post:       post,
		Department: "Computer Science",
		Year:       "3rd Year",
	})
	if err != nil {
		t.Fatalf("failed to seed candidate %s: %v", name, err)
	}
	return int(id)
}
