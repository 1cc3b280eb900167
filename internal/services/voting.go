package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/repository"
)

// VotingServiceRepository defines the repository methods needed by VotingService
type VotingServiceRepository interface {
	repository.MemberRepository
	repository.CandidateRepository
	repository.VoteRepository
}

// VotingService is the vote admission gate: it enforces the
// one-vote-per-member-per-post invariant at submission time.
type VotingService struct {
	log  logger.Logger
	repo VotingServiceRepository
}

// NewVotingService creates a new VotingService
func NewVotingService(log logger.Logger, repo VotingServiceRepository) *VotingService {
	return &VotingService{log: log, repo: repo}
}

// SubmitVote accepts a ballot for the candidate's post. Preconditions, in
// order: the candidate must exist, and the member must not have voted for
// that post yet. The duplicate pre-check is only a fast path for a friendly
// error; the storage layer's uniqueness constraint resolves the race
// between concurrent submissions, so a retried or concurrent duplicate
// always fails with ErrAlreadyVoted rather than double-counting.
func (s *VotingService) SubmitVote(ctx context.Context, memberID, memberName string, candidateID int) (*models.Vote, error) {
	if memberID == "" {
		return nil, ErrMissingMember
	}

	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	if err := s.repo.EnsureMember(ctx, memberID, memberName); err != nil {
		return nil, err
	}

	voted, err := s.repo.HasVotedForPost(ctx, memberID, candidate.Post)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	vote := models.Vote{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		CandidateID: candidate.ID,
		Post:        candidate.Post,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.RecordVote(ctx, vote); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateVote) {
			// Lost the race against a concurrent submission for the
			// same post; the constraint is authoritative.
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	s.log.Info("Vote recorded", "member_id", memberID, "candidate_id", candidate.ID, "post", candidate.Post)
	return &vote, nil
}

// MyVotes returns a member's accepted votes, newest first.
func (s *VotingService) MyVotes(ctx context.Context, memberID string) ([]models.Vote, error) {
	if memberID == "" {
		return nil, ErrMissingMember
	}
	return s.repo.ListVotesByMember(ctx, memberID)
}

// VotedPosts returns the set of posts the member has already voted on.
func (s *VotingService) VotedPosts(ctx context.Context, memberID string) ([]models.Post, error) {
	if memberID == "" {
		return nil, ErrMissingMember
	}
	return s.repo.GetMemberVotedPosts(ctx, memberID)
}

// AllVotes returns the full ledger with member and candidate detail.
func (s *VotingService) AllVotes(ctx context.Context) ([]repository.VoteDetailRow, error) {
	return s.repo.ListVoteDetails(ctx)
}
