package model

import "time"

// Identity is the account a session authenticated as.
type Identity struct {
	ID         int64
	ScreenName string
	PostCount  int
}

// Post represents the subset of tweet fields the deleter needs.
type Post struct {
	ID        int64
	CreatedAt time.Time // local wall clock
	Text      string
	IsReshare bool
	// ResharedID is the original post a reshare points at; zero for originals.
	ResharedID int64
	HasMedia   bool
}

// Outcome is the per-post result of a run.
type Outcome int

const (
	Deleted Outcome = iota
	DeletedReshare
	SkippedNotOldEnough
	SkippedDuplicate
	SkippedHasMedia
	FailedNotFound
	FailedRateLimited
	FailedOther
)

var outcomeNames = [...]string{
	Deleted:             "deleted",
	DeletedReshare:      "deleted_reshare",
	SkippedNotOldEnough: "skipped_not_old_enough",
	SkippedDuplicate:    "skipped_duplicate",
	SkippedHasMedia:     "skipped_has_media",
	FailedNotFound:      "failed_not_found",
	FailedRateLimited:   "failed_rate_limited",
	FailedOther:         "failed_other",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Failed reports whether the outcome is a classified failure.
func (o Outcome) Failed() bool {
	return o == FailedNotFound || o == FailedRateLimited || o == FailedOther
}

// ItemOutcome ties an outcome to the post (or bare ID) it belongs to.
type ItemOutcome struct {
	PostID     int64
	Post       *Post // nil when the post was never loaded
	Outcome    Outcome
	StatusCode int // platform status for failures, 0 otherwise
	Err        error
}

// Completion describes how far a deletion batch got.
type Completion int

const (
	NothingToDelete Completion = iota
	Completed
	Partial
	Aborted
)

func (c Completion) String() string {
	switch c {
	case NothingToDelete:
		return "nothing_to_delete"
	case Completed:
		return "completed"
	case Partial:
		return "partial"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// RunSummary is what a deletion batch hands back to its caller.
type RunSummary struct {
	State       Completion
	Candidates  int // posts that passed the filter
	Attempted   int // deletion calls issued
	Counts      map[Outcome]int
	Skipped     map[Outcome]int // candidates the criteria kept, by reason
	Outcomes    []ItemOutcome
	Earliest    *Post
	RateLimited bool
}

// Count returns the number of outcomes of kind o.
func (s RunSummary) Count(o Outcome) int { return s.Counts[o] }

// DeletedTotal counts originals and reshares removed.
func (s RunSummary) DeletedTotal() int { return s.Counts[Deleted] + s.Counts[DeletedReshare] }
