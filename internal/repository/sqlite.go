package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/campuslabs/unionvote/internal/errors"
	"github.com/campuslabs/unionvote/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			name TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// votedPosts set: composite primary key gives set semantics,
		// INSERT OR IGNORE makes re-adding a no-op
		`CREATE TABLE IF NOT EXISTS member_posts (
			member_id TEXT NOT NULL,
			post TEXT NOT NULL,
			PRIMARY KEY (member_id, post),
			FOREIGN KEY (member_id) REFERENCES members(id)
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			registry_id TEXT UNIQUE,
			name TEXT NOT NULL,
			post TEXT NOT NULL,
			department TEXT DEFAULT '',
			year TEXT DEFAULT '',
			manifesto TEXT DEFAULT '',
			photo_url TEXT DEFAULT '',
			votes_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// UNIQUE(member_id, post) is the one-vote-per-member-per-post
		// invariant; the insert attempt itself resolves the race
		`CREATE TABLE IF NOT EXISTS votes (
			id TEXT PRIMARY KEY,
			member_id TEXT NOT NULL,
			candidate_id INTEGER NOT NULL,
			post TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE(member_id, post),
			FOREIGN KEY (member_id) REFERENCES members(id),
			FOREIGN KEY (candidate_id) REFERENCES candidates(id)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			post TEXT PRIMARY KEY,
			winner_candidate_id INTEGER,
			winner_name TEXT DEFAULT '',
			winner_department TEXT DEFAULT '',
			winner_year TEXT DEFAULT '',
			total_votes INTEGER NOT NULL DEFAULT 0,
			announced BOOLEAN NOT NULL DEFAULT 0,
			announced_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_post ON candidates(post)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_post ON votes(post)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_member ON votes(member_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// isUniqueViolation reports whether err is a sqlite unique or primary key
// constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if stderrors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// ==================== Member Methods ====================

// EnsureMember inserts a member row if one does not exist yet. Members are
// owned by the external identity subsystem; this is only the local mirror.
func (r *Repository) EnsureMember(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO members (id, name) VALUES (?, ?)`, id, name)
	return err
}

// GetMemberVotedPosts returns the set of posts the member has voted on.
func (r *Repository) GetMemberVotedPosts(ctx context.Context, memberID string) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT post FROM member_posts WHERE member_id = ?`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post string
		if err := rows.Scan(&post); err != nil {
			return nil, err
		}
		posts = append(posts, models.Post(post))
	}
	return posts, rows.Err()
}

// HasVotedForPost is the fast-path duplicate check. It is only an
// optimization for a friendly error; the unique constraint in RecordVote
// is the authoritative guard.
func (r *Repository) HasVotedForPost(ctx context.Context, memberID string, post models.Post) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM votes WHERE member_id = ? AND post = ?)`,
		memberID, string(post)).Scan(&exists)
	return exists, err
}

// ==================== Candidate Methods ====================

func scanCandidate(scan func(dest ...interface{}) error) (models.Candidate, error) {
	var c models.Candidate
	var registryID, department, year, manifesto, photoURL sql.NullString
	var post string
	err := scan(&c.ID, &registryID, &c.Name, &post, &department, &year, &manifesto, &photoURL, &c.VotesCount, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	c.RegistryID = registryID.String
	c.Post = models.Post(post)
	c.Department = department.String
	c.Year = year.String
	c.Manifesto = manifesto.String
	c.PhotoURL = photoURL.String
	return c, nil
}

const candidateColumns = `id, registry_id, name, post, department, year, manifesto, photo_url, votes_count, created_at`

// ListCandidates returns all candidates, newest first.
func (r *Repository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// ListCandidatesByPost returns the candidates for a post ranked by counter
// value, with creation order as the stable secondary ordering. The tally
// engine relies on this ordering for both ranking and the zero-vote
// tie-break.
func (r *Repository) ListCandidatesByPost(ctx context.Context, post models.Post) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE post = ?
		 ORDER BY votes_count DESC, created_at ASC, id ASC`, string(post))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns a candidate by ID
func (r *Repository) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	c, err := scanCandidate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(ErrNotFound, errors.ErrNotFound, "candidate not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCandidate creates a candidate and returns its ID. Used by seeding
// and tests; production candidates arrive through registry sync.
func (r *Repository) CreateCandidate(ctx context.Context, c models.Candidate) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (registry_id, name, post, department, year, manifesto, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, nullableString(c.RegistryID), c.Name, string(c.Post), c.Department, c.Year, c.Manifesto, c.PhotoURL)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpsertCandidateFromRegistry creates or updates a candidate keyed by its
// registry ID. The vote counter is never touched on update: it belongs to
// the counter projection, not the registry.
func (r *Repository) UpsertCandidateFromRegistry(ctx context.Context, c models.Candidate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (registry_id, name, post, department, year, manifesto, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(registry_id) DO UPDATE SET
			name = excluded.name,
			post = excluded.post,
			department = excluded.department,
			year = excluded.year,
			manifesto = excluded.manifesto,
			photo_url = excluded.photo_url
	`, c.RegistryID, c.Name, string(c.Post), c.Department, c.Year, c.Manifesto, c.PhotoURL)
	return err
}

// CountVotesForCandidate counts the ledger entries referencing a candidate.
// Used to cross-check the counter projection, never on the read hot path.
func (r *Repository) CountVotesForCandidate(ctx context.Context, candidateID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE candidate_id = ?`, candidateID).Scan(&count)
	return count, err
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ==================== Vote Methods ====================

// RecordVote appends a vote to the ledger, increments the candidate's
// counter, and adds the post to the member's votedPosts set, all inside a
// single transaction. If any step fails nothing is visible. A uniqueness
// violation on (member_id, post) surfaces as ErrDuplicateVote.
func (r *Repository) RecordVote(ctx context.Context, vote models.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (id, member_id, candidate_id, post, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, vote.ID, vote.MemberID, vote.CandidateID, string(vote.Post), vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return err
	}

	// Counter projection: a relative increment, never read-modify-write
	res, err := tx.ExecContext(ctx,
		`UPDATE candidates SET votes_count = votes_count + 1 WHERE id = ?`, vote.CandidateID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errors.Wrap(ErrNotFound, errors.ErrNotFound, "candidate not found")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO member_posts (member_id, post) VALUES (?, ?)`,
		vote.MemberID, string(vote.Post))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListVotesByMember returns a member's votes, newest first.
func (r *Repository) ListVotesByMember(ctx context.Context, memberID string) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, member_id, candidate_id, post, created_at
		FROM votes WHERE member_id = ?
		ORDER BY created_at DESC, id DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVotes(rows)
}

func scanVotes(rows *sql.Rows) ([]models.Vote, error) {
	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		var post string
		if err := rows.Scan(&v.ID, &v.MemberID, &v.CandidateID, &post, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Post = models.Post(post)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// VoteDetailRow is a ledger entry joined with member and candidate detail,
// for the admin listing.
type VoteDetailRow struct {
	VoteID        string    `json:"vote_id"`
	MemberID      string    `json:"member_id"`
	MemberName    string    `json:"member_name,omitempty"`
	CandidateID   int       `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	Post          string    `json:"post"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListVoteDetails returns the full ledger with member and candidate names,
// newest first.
func (r *Repository) ListVoteDetails(ctx context.Context) ([]VoteDetailRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.id, v.member_id, m.name, v.candidate_id, c.name, v.post, v.created_at
		FROM votes v
		JOIN members m ON v.member_id = m.id
		JOIN candidates c ON v.candidate_id = c.id
		ORDER BY v.created_at DESC, v.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []VoteDetailRow
	for rows.Next() {
		var row VoteDetailRow
		var memberName sql.NullString
		if err := rows.Scan(&row.VoteID, &row.MemberID, &memberName, &row.CandidateID, &row.CandidateName, &row.Post, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.MemberName = memberName.String
		details = append(details, row)
	}
	return details, rows.Err()
}

// CountVotesForPost counts the ledger entries for a post. This is the
// totalVotes figure the tally engine records; it deliberately comes from
// the ledger rather than the counter projection.
func (r *Repository) CountVotesForPost(ctx context.Context, post models.Post) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE post = ?`, string(post)).Scan(&count)
	return count, err
}

// SumCountersForPost sums candidate counters for a post. Equivalent to
// CountVotesForPost when the projection is healthy; the tally engine
// compares the two.
func (r *Repository) SumCountersForPost(ctx context.Context, post models.Post) (int, error) {
	var sum int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(votes_count), 0) FROM candidates WHERE post = ?`, string(post)).Scan(&sum)
	return sum, err
}

// ==================== Result Methods ====================

// UpsertResult writes the announced outcome for a post, replacing any
// previous announcement.
func (r *Repository) UpsertResult(ctx context.Context, result models.Result) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results (post, winner_candidate_id, winner_name, winner_department, winner_year, total_votes, announced, announced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(post) DO UPDATE SET
			winner_candidate_id = excluded.winner_candidate_id,
			winner_name = excluded.winner_name,
			winner_department = excluded.winner_department,
			winner_year = excluded.winner_year,
			total_votes = excluded.total_votes,
			announced = excluded.announced,
			announced_at = excluded.announced_at
	`, string(result.Post), result.Winner.CandidateID, result.Winner.Name, result.Winner.Department,
		result.Winner.Year, result.TotalVotes, result.Announced, result.AnnouncedAt)
	return err
}

func scanResult(scan func(dest ...interface{}) error) (models.Result, error) {
	var res models.Result
	var post string
	var winnerID sql.NullInt64
	var announcedAt sql.NullTime
	err := scan(&post, &winnerID, &res.Winner.Name, &res.Winner.Department, &res.Winner.Year,
		&res.TotalVotes, &res.Announced, &announcedAt)
	if err != nil {
		return res, err
	}
	res.Post = models.Post(post)
	res.Winner.CandidateID = int(winnerID.Int64)
	if announcedAt.Valid {
		res.AnnouncedAt = announcedAt.Time
	}
	return res, nil
}

const resultColumns = `post, winner_candidate_id, winner_name, winner_department, winner_year, total_votes, announced, announced_at`

// GetResult returns the announced result for a post
func (r *Repository) GetResult(ctx context.Context, post models.Post) (*models.Result, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE post = ?`, string(post))
	res, err := scanResult(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(ErrNotFound, errors.ErrNotFound, fmt.Sprintf("result not announced for post %q", post))
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListResults returns all announced results ordered by post name.
func (r *Repository) ListResults(ctx context.Context) ([]models.Result, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE announced = 1 ORDER BY post`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		res, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ==================== Stats Methods ====================

// GetVotingStats returns overall election statistics
func (r *Repository) GetVotingStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	queries := []struct {
		key   string
		query string
	}{
		{"total_members", `SELECT COUNT(*) FROM members`},
		{"members_who_voted", `SELECT COUNT(DISTINCT member_id) FROM votes`},
		{"total_votes", `SELECT COUNT(*) FROM votes`},
		{"total_candidates", `SELECT COUNT(*) FROM candidates`},
		{"announced_posts", `SELECT COUNT(*) FROM results WHERE announced = 1`},
	}

	for _, q := range queries {
		var n int
		if err := r.db.QueryRowContext(ctx, q.query).Scan(&n); err != nil {
			return nil, fmt.Errorf("stats query %s: %w", q.key, err)
		}
		stats[q.key] = n
	}

	return stats, nil
}
