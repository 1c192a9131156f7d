package session

import (
	"context"

	"shredder/internal/logging"
	"shredder/internal/model"
)

// DefaultPageSize is the largest page the timeline endpoint serves.
const DefaultPageSize = 200

// Pages walks the authenticated user's timeline newest first using a
// max_id cursor. How far back it reaches is up to the platform.
type Pages struct {
	s       *Session
	size    int
	maxID   int64
	started bool
	done    bool
	n       int
}

// Timeline returns a fresh page iterator over the session's own posts.
func (s *Session) Timeline(pageSize int) (*Pages, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pages{s: s, size: pageSize}, nil
}

func (p *Pages) Done() bool { return p.done }

// Next fetches the following page. An empty page, or one that does not move
// the cursor back, completes the iterator.
func (p *Pages) Next(ctx context.Context) ([]model.Post, error) {
	if p.done {
		return nil, nil
	}
	page, err := p.s.api.UserTimelinePage(ctx, p.s.identity.ID, p.maxID, p.size)
	if err != nil {
		return nil, err
	}
	p.n++
	if len(page) == 0 {
		p.done = true
		return nil, nil
	}
	minID := page[0].ID
	for _, post := range page[1:] {
		if post.ID < minID {
			minID = post.ID
		}
	}
	if p.started && minID > p.maxID {
		p.done = true
		return nil, nil
	}
	p.started = true
	p.maxID = minID - 1
	// No ID lies below 1, and a zero max_id would mean "from the newest".
	if p.maxID < 1 {
		p.done = true
	}
	logging.Debug("timeline_page", map[string]any{"page": p.n, "posts": len(page), "next_max_id": p.maxID})
	return page, nil
}
