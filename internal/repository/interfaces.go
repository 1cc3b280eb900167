package repository

import (
	"context"

	"github.com/campuslabs/unionvote/internal/models"
)

// MemberRepository defines member data operations
type MemberRepository interface {
	EnsureMember(ctx context.Context, id, name string) error
	GetMemberVotedPosts(ctx context.Context, memberID string) ([]models.Post, error)
	HasVotedForPost(ctx context.Context, memberID string, post models.Post) (bool, error)
}

// CandidateRepository defines candidate data operations
type CandidateRepository interface {
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	ListCandidatesByPost(ctx context.Context, post models.Post) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, c models.Candidate) (int64, error)
	UpsertCandidateFromRegistry(ctx context.Context, c models.Candidate) error
	CountVotesForCandidate(ctx context.Context, candidateID int) (int, error)
}

// VoteRepository defines ledger operations
type VoteRepository interface {
	RecordVote(ctx context.Context, vote models.Vote) error
	ListVotesByMember(ctx context.Context, memberID string) ([]models.Vote, error)
	ListVoteDetails(ctx context.Context) ([]VoteDetailRow, error)
	CountVotesForPost(ctx context.Context, post models.Post) (int, error)
	SumCountersForPost(ctx context.Context, post models.Post) (int, error)
}

// ResultRepository defines result store operations
type ResultRepository interface {
	UpsertResult(ctx context.Context, result models.Result) error
	GetResult(ctx context.Context, post models.Post) (*models.Result, error)
	ListResults(ctx context.Context) ([]models.Result, error)
}

// StatsRepository defines statistics operations
type StatsRepository interface {
	GetVotingStats(ctx context.Context) (map[string]interface{}, error)
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple domains.
type FullRepository interface {
	MemberRepository
	CandidateRepository
	VoteRepository
	ResultRepository
	StatsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
