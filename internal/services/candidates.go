package services

import (
	"context"
	"fmt"

	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/repository"
	"github.com/campuslabs/unionvote/pkg/registry"
)

// CandidateService exposes the candidate roster. Registration itself lives
// in the external registry; this service only mirrors and reads.
type CandidateService struct {
	log    logger.Logger
	repo   repository.CandidateRepository
	client registry.Client
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(log logger.Logger, repo repository.CandidateRepository, client registry.Client) *CandidateService {
	return &CandidateService{log: log, repo: repo, client: client}
}

// ListCandidates returns candidates, optionally filtered to one post.
func (s *CandidateService) ListCandidates(ctx context.Context, post string) ([]models.Candidate, error) {
	if post == "" {
		return s.repo.ListCandidates(ctx)
	}
	p, err := models.ParsePost(post)
	if err != nil {
		return nil, ErrUnknownPost
	}
	return s.repo.ListCandidatesByPost(ctx, p)
}

// GetCandidate returns a single candidate by ID.
func (s *CandidateService) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	return s.repo.GetCandidate(ctx, id)
}

// SyncResult summarizes a registry sync run.
type SyncResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
}

// SyncFromRegistry pulls the candidate roster from the external
// registration collaborator and upserts it locally. Vote counters are
// never touched by a sync.
func (s *CandidateService) SyncFromRegistry(ctx context.Context, registryURL string) (*SyncResult, error) {
	if registryURL != "" {
		s.client.SetBaseURL(registryURL)
	}
	if s.client.BaseURL() == "" {
		return nil, &ServiceError{Message: "registry URL is not configured"}
	}

	entries, err := s.client.FetchCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates from registry: %w", err)
	}

	result := &SyncResult{Status: "success"}
	for _, entry := range entries {
		post, err := models.ParsePost(entry.Post)
		if err != nil {
			s.log.Warn("Skipping registry candidate with unknown post", "registry_id", entry.ID, "post", entry.Post)
			result.Skipped++
			continue
		}

		err = s.repo.UpsertCandidateFromRegistry(ctx, models.Candidate{
			RegistryID: entry.ID,
			Name:       entry.Name,
			Post:       post,
			Department: entry.Department,
			Year:       entry.Year,
			Manifesto:  entry.Manifesto,
			PhotoURL:   entry.Photo,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert candidate %s: %w", entry.ID, err)
		}
		result.Synced++
	}

	if result.Skipped > 0 {
		result.Message = fmt.Sprintf("%d candidates synced, %d skipped (unknown post)", result.Synced, result.Skipped)
	}

	s.log.Info("Registry sync complete", "synced", result.Synced, "skipped", result.Skipped)
	return result, nil
}

// mockRoster is the demo candidate set used by SeedMockCandidates.
var mockRoster = []models.Candidate{
	{Name: "Aarav Sharma", Post: models.PostPresident, Department: "Computer Science", Year: "3rd Year", Manifesto: "Open budgets, open doors."},
	{Name: "Priya Patel", Post: models.PostPresident, Department: "Economics", Year: "4th Year", Manifesto: "A union that shows up."},
	{Name: "Rohan Mehta", Post: models.PostVicePresident, Department: "Mechanical Engineering", Year: "3rd Year", Manifesto: "Better labs, better breaks."},
	{Name: "Sneha Iyer", Post: models.PostSecretary, Department: "English", Year: "2nd Year", Manifesto: "Minutes published within a day."},
	{Name: "Vikram Rao", Post: models.PostSecretary, Department: "Physics", Year: "3rd Year", Manifesto: "Paperwork without the wait."},
	{Name: "Ananya Das", Post: models.PostJointSecretary, Department: "Chemistry", Year: "2nd Year", Manifesto: "Every club heard."},
	{Name: "Karan Singh", Post: models.PostTreasurer, Department: "Commerce", Year: "4th Year", Manifesto: "Receipts for everything."},
	{Name: "Meera Nair", Post: models.PostEventOrganizer, Department: "Design", Year: "3rd Year", Manifesto: "Fests worth skipping class for."},
	{Name: "Arjun Verma", Post: models.PostSportsCoordinator, Department: "Physical Education", Year: "3rd Year", Manifesto: "Courts open past dusk."},
	{Name: "Divya Menon", Post: models.PostMediaCoordinator, Department: "Journalism", Year: "2nd Year", Manifesto: "News before rumor."},
}

// SeedMockCandidates inserts a demo roster for development and demos.
// Returns the number of candidates created.
func (s *CandidateService) SeedMockCandidates(ctx context.Context) (int, error) {
	created := 0
	for _, c := range mockRoster {
		if _, err := s.repo.CreateCandidate(ctx, c); err != nil {
			return created, err
		}
		created++
	}
	s.log.Info("Seeded mock candidates", "count", created)
	return created, nil
}
