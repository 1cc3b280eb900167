package services

import (
	"context"

	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/repository"
)

// VotingServicer defines the interface for vote admission operations
type VotingServicer interface {
	SubmitVote(ctx context.Context, memberID, memberName string, candidateID int) (*models.Vote, error)
	MyVotes(ctx context.Context, memberID string) ([]models.Vote, error)
	VotedPosts(ctx context.Context, memberID string) ([]models.Post, error)
	AllVotes(ctx context.Context) ([]repository.VoteDetailRow, error)
}

// TallyServicer defines the interface for tally and announcement operations
type TallyServicer interface {
	Announce(ctx context.Context, post models.Post) (*models.Result, error)
	GetResult(ctx context.Context, post models.Post) (*models.Result, error)
	ListResults(ctx context.Context) ([]models.Result, error)
	GetPostStats(ctx context.Context, post models.Post) (*PostStats, error)
	GetElectionStats(ctx context.Context) (*ElectionStats, error)
	SetBroadcaster(b Broadcaster)
}

// CandidateServicer defines the interface for candidate roster operations
type CandidateServicer interface {
	ListCandidates(ctx context.Context, post string) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	SyncFromRegistry(ctx context.Context, registryURL string) (*SyncResult, error)
	SeedMockCandidates(ctx context.Context) (int, error)
}

// Broadcaster pushes announcement events to connected observers. Delivery
// is best-effort: implementations must not block or fail the announcement.
type Broadcaster interface {
	BroadcastResultAnnounced(result models.Result)
}

// Ensure concrete types implement interfaces
var (
	_ VotingServicer    = (*VotingService)(nil)
	_ TallyServicer     = (*TallyService)(nil)
	_ CandidateServicer = (*CandidateService)(nil)
)
