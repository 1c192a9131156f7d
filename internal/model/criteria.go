package model

import "time"

// Criteria decides which posts are deletable.
type Criteria struct {
	Cutoff    time.Time
	KeepMedia bool
}

// Deletable reports whether p is strictly older than the cutoff and not
// protected by the keep-media rule.
func (c Criteria) Deletable(p Post) bool {
	_, skip := c.Skip(p)
	return !skip
}

// Skip returns why p is not deletable, or false if it is.
func (c Criteria) Skip(p Post) (Outcome, bool) {
	if !p.CreatedAt.Before(c.Cutoff) {
		return SkippedNotOldEnough, true
	}
	if c.KeepMedia && p.HasMedia {
		return SkippedHasMedia, true
	}
	return 0, false
}

// Apply returns the deletable posts in their original order.
func (c Criteria) Apply(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if c.Deletable(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByAge keeps posts created strictly before cutoff.
func FilterByAge(posts []Post, cutoff time.Time) []Post {
	return Criteria{Cutoff: cutoff}.Apply(posts)
}

// CutoffFromDays converts a max-age in days into a cutoff. Zero days means
// everything up to now; otherwise the cutoff is local midnight days ago.
func CutoffFromDays(days int, now time.Time) time.Time {
	if days <= 0 {
		return now
	}
	d := now.AddDate(0, 0, -days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
}

// Earliest returns the chronologically oldest post, or false if posts is empty.
func Earliest(posts []Post) (Post, bool) {
	if len(posts) == 0 {
		return Post{}, false
	}
	min := posts[0]
	for _, p := range posts[1:] {
		if p.CreatedAt.Before(min.CreatedAt) {
			min = p
		}
	}
	return min, true
}
