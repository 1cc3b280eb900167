package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/internal/models"
	"github.com/campuslabs/unionvote/internal/repository"
)

// TallyServiceRepository defines the repository methods needed by TallyService
type TallyServiceRepository interface {
	repository.CandidateRepository
	repository.VoteRepository
	repository.ResultRepository
	repository.StatsRepository
}

// TallyService computes winners and announces outcomes. Announcing is the
// only way a Result is created or changed.
type TallyService struct {
	log         logger.Logger
	repo        TallyServiceRepository
	broadcaster Broadcaster
}

// NewTallyService creates a new TallyService
func NewTallyService(log logger.Logger, repo TallyServiceRepository) *TallyService {
	return &TallyService{log: log, repo: repo}
}

// SetBroadcaster wires the result publisher. Optional; announcements work
// without one.
func (s *TallyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Announce computes the winner for a post, stores the Result, and notifies
// connected observers.
//
// Tie policy: a maximum count shared by two or more candidates blocks the
// announcement with a TieError, but only when that maximum is non-zero. An
// all-zero tally auto-resolves to the earliest-created candidate. The
// asymmetry is intentional and mirrors the behavior admins rely on: a
// fresh post can always be closed out, a contested one cannot.
//
// Re-announcing a post recomputes and overwrites the stored Result rather
// than rejecting, so an announcement made too early can be corrected by
// announcing again.
func (s *TallyService) Announce(ctx context.Context, post models.Post) (*models.Result, error) {
	if !post.Valid() {
		return nil, ErrUnknownPost
	}

	// Ranked by counter value, creation order as the stable tie-break
	candidates, err := s.repo.ListCandidatesByPost(ctx, post)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	winner := candidates[0]
	topVotes := winner.VotesCount

	var tied []TiedCandidate
	for _, c := range candidates {
		if c.VotesCount != topVotes {
			break // sorted descending
		}
		tied = append(tied, TiedCandidate{ID: c.ID, Name: c.Name, Votes: c.VotesCount})
	}
	if len(tied) > 1 && topVotes > 0 {
		return nil, &TieError{Post: post, Votes: topVotes, Candidates: tied}
	}

	// totalVotes comes from the ledger, not the counters; the two must
	// agree and divergence means the projection has a bug
	totalVotes, err := s.repo.CountVotesForPost(ctx, post)
	if err != nil {
		return nil, err
	}
	if counterSum, err := s.repo.SumCountersForPost(ctx, post); err != nil {
		return nil, err
	} else if counterSum != totalVotes {
		s.log.Error("Counter projection diverged from ledger",
			"post", post, "ledger", totalVotes, "counters", counterSum)
		s.reportDivergedCounters(ctx, candidates)
	}

	result := models.Result{
		Post: post,
		Winner: models.WinnerSnapshot{
			CandidateID: winner.ID,
			Name:        winner.Name,
			Department:  winner.Department,
			Year:        winner.Year,
		},
		TotalVotes:  totalVotes,
		Announced:   true,
		AnnouncedAt: time.Now().UTC(),
	}

	if err := s.repo.UpsertResult(ctx, result); err != nil {
		return nil, err
	}

	s.log.Info("Result announced", "post", post, "winner", winner.Name, "total_votes", totalVotes)

	// Fire-and-forget, strictly after the store write. Publisher problems
	// never surface to the caller.
	if s.broadcaster != nil {
		s.broadcaster.BroadcastResultAnnounced(result)
	}

	return &result, nil
}

// reportDivergedCounters recounts each candidate's ledger entries and names
// the counters that disagree. Diagnostic only; the announcement proceeds on
// the ledger figure.
func (s *TallyService) reportDivergedCounters(ctx context.Context, candidates []models.Candidate) {
	for _, c := range candidates {
		ledger, err := s.repo.CountVotesForCandidate(ctx, c.ID)
		if err != nil {
			s.log.Warn("Could not cross-check candidate counter", "candidate_id", c.ID, "error", err)
			continue
		}
		if ledger != c.VotesCount {
			s.log.Error("Candidate counter diverged from ledger",
				"candidate_id", c.ID, "name", c.Name, "ledger", ledger, "counter", c.VotesCount)
		}
	}
}

// GetResult returns the announced result for a post.
func (s *TallyService) GetResult(ctx context.Context, post models.Post) (*models.Result, error) {
	if !post.Valid() {
		return nil, ErrUnknownPost
	}
	return s.repo.GetResult(ctx, post)
}

// ListResults returns every announced result.
func (s *TallyService) ListResults(ctx context.Context) ([]models.Result, error) {
	return s.repo.ListResults(ctx)
}

// CandidateStanding is one candidate's position in a post's tally.
type CandidateStanding struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Year        string `json:"year"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Votes       int    `json:"votes"`
	Rank        int    `json:"rank"`
}

// PostStats is the live tally view for a single post.
type PostStats struct {
	Post            models.Post         `json:"post"`
	TotalVotes      int                 `json:"total_votes"`
	CandidatesCount int                 `json:"candidates_count"`
	Candidates      []CandidateStanding `json:"candidates"`
	Result          *models.Result      `json:"result,omitempty"`
}

// GetPostStats returns ranked candidates, the ledger vote total, and the
// announced result (if any) for one post.
func (s *TallyService) GetPostStats(ctx context.Context, post models.Post) (*PostStats, error) {
	if !post.Valid() {
		return nil, ErrUnknownPost
	}

	candidates, err := s.repo.ListCandidatesByPost(ctx, post)
	if err != nil {
		return nil, err
	}

	totalVotes, err := s.repo.CountVotesForPost(ctx, post)
	if err != nil {
		return nil, err
	}

	standings := make([]CandidateStanding, 0, len(candidates))
	for i, c := range candidates {
		standings = append(standings, CandidateStanding{
			CandidateID: c.ID,
			Name:        c.Name,
			Department:  c.Department,
			Year:        c.Year,
			PhotoURL:    c.PhotoURL,
			Votes:       c.VotesCount,
			Rank:        i + 1,
		})
	}

	stats := &PostStats{
		Post:            post,
		TotalVotes:      totalVotes,
		CandidatesCount: len(candidates),
		Candidates:      standings,
	}

	// A not-yet-announced result is fine here; any other read failure
	// propagates
	result, err := s.repo.GetResult(ctx, post)
	switch {
	case err == nil:
		stats.Result = result
	case stderrors.Is(err, repository.ErrNotFound):
		// not announced yet
	default:
		return nil, err
	}

	return stats, nil
}

// PostSummary is one row of the fixed all-posts statistics view.
type PostSummary struct {
	Post            models.Post            `json:"post"`
	TotalVotes      int                    `json:"total_votes"`
	CandidatesCount int                    `json:"candidates_count"`
	Announced       bool                   `json:"announced"`
	Winner          *models.WinnerSnapshot `json:"winner,omitempty"`
}

// ElectionStats is the admin dashboard payload: one summary per post in
// ballot order plus overall counts.
type ElectionStats struct {
	Posts   []PostSummary          `json:"posts"`
	Overall map[string]interface{} `json:"overall"`
}

// GetElectionStats returns the fixed statistics view over the whole post
// enumeration, whether or not any candidates exist for a post.
func (s *TallyService) GetElectionStats(ctx context.Context) (*ElectionStats, error) {
	overall, err := s.repo.GetVotingStats(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]PostSummary, 0, len(models.AllPosts))
	for _, post := range models.AllPosts {
		candidates, err := s.repo.ListCandidatesByPost(ctx, post)
		if err != nil {
			return nil, err
		}
		totalVotes, err := s.repo.CountVotesForPost(ctx, post)
		if err != nil {
			return nil, err
		}

		summary := PostSummary{
			Post:            post,
			TotalVotes:      totalVotes,
			CandidatesCount: len(candidates),
		}
		result, err := s.repo.GetResult(ctx, post)
		if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if err == nil && result.Announced {
			summary.Announced = true
			winner := result.Winner
			summary.Winner = &winner
		}
		summaries = append(summaries, summary)
	}

	return &ElectionStats{Posts: summaries, Overall: overall}, nil
}
