package models

import (
	"fmt"
	"time"
)

// Post is one of the elected offices on the ballot. The set is closed:
// every post is known at compile time and an unknown string fails parsing
// instead of producing an empty query downstream.
type Post string

const (
	PostPresident         Post = "President"
	PostVicePresident     Post = "Vice President"
	PostSecretary         Post = "Secretary"
	PostJointSecretary    Post = "Joint Secretary"
	PostTreasurer         Post = "Treasurer"
	PostEventOrganizer    Post = "Event Organizer"
	PostSportsCoordinator Post = "Sports Coordinator"
	PostMediaCoordinator  Post = "Media Coordinator"
)

// AllPosts lists every elected post in ballot order. The fixed statistics
// view and post validation both iterate this slice.
var AllPosts = []Post{
	PostPresident,
	PostVicePresident,
	PostSecretary,
	PostJointSecretary,
	PostTreasurer,
	PostEventOrganizer,
	PostSportsCoordinator,
	PostMediaCoordinator,
}

// ParsePost validates a post name against the closed set.
func ParsePost(s string) (Post, error) {
	for _, p := range AllPosts {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown post: %q", s)
}

// Valid reports whether p is one of the enumerated posts.
func (p Post) Valid() bool {
	_, err := ParsePost(string(p))
	return err == nil
}

func (p Post) String() string {
	return string(p)
}

// Member is a voter identity owned by the external identity subsystem.
// Locally we track only the id, a display name, and the set of posts the
// member has already voted on.
type Member struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	VotedPosts []Post    `json:"voted_posts"`
	CreatedAt  time.Time `json:"created_at"`
}

// Candidate is a person standing for a post. Created by registry sync or
// seeding; the engine mutates nothing but the vote counter.
type Candidate struct {
	ID         int       `json:"id"`
	RegistryID string    `json:"registry_id,omitempty"`
	Name       string    `json:"name"`
	Post       Post      `json:"post"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
	Manifesto  string    `json:"manifesto,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	VotesCount int       `json:"votes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Vote is one accepted ballot. Immutable once written.
type Vote struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	CandidateID int       `json:"candidate_id"`
	Post        Post      `json:"post"`
	CreatedAt   time.Time `json:"created_at"`
}

// WinnerSnapshot is the denormalized copy of the winning candidate captured
// at announcement time, so historical results stay readable even if the
// candidate record is later edited or deleted.
type WinnerSnapshot struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Year        string `json:"year"`
}

// Result is the announced outcome for a post. At most one per post.
type Result struct {
	Post        Post           `json:"post"`
	Winner      WinnerSnapshot `json:"winner"`
	TotalVotes  int            `json:"total_votes"`
	Announced   bool           `json:"announced"`
	AnnouncedAt time.Time      `json:"announced_at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
