package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the
// repository. It abstracts the underlying storage implementation away
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateVote is returned when inserting a vote would violate the
// one-vote-per-member-per-post uniqueness constraint. The constraint is
// the authoritative guard; callers translate this into their own
// already-voted error.
var ErrDuplicateVote = errors.New("vote already recorded for this member and post")
