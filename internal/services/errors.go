package services

import (
	"fmt"
	"strings"

	"github.com/campuslabs/unionvote/internal/models"
)

// Service errors. These are expected, recoverable outcomes returned to the
// caller; they are never logged as faults.
var (
	ErrAlreadyVoted      = &ServiceError{Message: "you have already voted for this post"}
	ErrCandidateNotFound = &ServiceError{Message: "candidate not found"}
	ErrNoCandidates      = &ServiceError{Message: "no candidates found for this post"}
	ErrUnknownPost       = &ServiceError{Message: "unknown post"}
	ErrMissingMember     = &ServiceError{Message: "member identity is required"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TiedCandidate identifies one participant of a tie.
type TiedCandidate struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

// TieError is returned when two or more candidates share a non-zero
// maximum vote count for a post. It carries the tied candidates so an
// administrator can resolve the tie manually.
type TieError struct {
	Post       models.Post
	Votes      int
	Candidates []TiedCandidate
}

func (e *TieError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.Name
	}
	return fmt.Sprintf("tie for %s at %d votes between %s; announce manually after resolution",
		e.Post, e.Votes, strings.Join(names, ", "))
}
