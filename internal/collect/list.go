package collect

import (
	"context"
	"errors"
	"fmt"

	"shredder/internal/logging"
	"shredder/internal/metrics"
	"shredder/internal/model"
	"shredder/internal/session"
	"shredder/internal/xclient"
)

// ListResult is the output of list mode.
type ListResult struct {
	Listed      int // IDs in the input, duplicates included
	Loaded      int // posts fetched successfully
	Posts       []model.Post
	Outcomes    []model.ItemOutcome
	RateLimited bool
}

// FromIDs resolves ids in order. Repeated IDs are skipped without a fetch,
// fetch failures are recorded and skipped, and only deletable posts are
// returned. A rate-limit answer stops immediately and is returned as the
// error alongside everything gathered so far.
func FromIDs(ctx context.Context, s *session.Session, ids []int64, c model.Criteria) (ListResult, error) {
	res := ListResult{Listed: len(ids)}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			res.record(model.ItemOutcome{PostID: id, Outcome: model.SkippedDuplicate})
			continue
		}
		seen[id] = struct{}{}

		p, err := s.GetPost(ctx, id)
		if err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) || ctx.Err() != nil {
				return res, err
			}
			res.record(model.ItemOutcome{PostID: id, Outcome: xclient.ClassifyFailure(err), StatusCode: xclient.StatusCode(err), Err: err})
			if xclient.IsRateLimited(err) {
				res.RateLimited = true
				return res, fmt.Errorf("load post %d: %w", id, err)
			}
			continue
		}
		res.Loaded++
		if skip, ok := c.Skip(p); ok {
			res.record(model.ItemOutcome{PostID: id, Post: &p, Outcome: skip})
			continue
		}
		res.Posts = append(res.Posts, p)
	}
	logging.Info("list_collected", map[string]any{"listed": res.Listed, "loaded": res.Loaded, "eligible": len(res.Posts)})
	return res, nil
}

func (r *ListResult) record(o model.ItemOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	metrics.IncOutcome(o.Outcome.String())
	fields := map[string]any{"id": o.PostID, "outcome": o.Outcome.String()}
	if o.Err != nil {
		fields["error"] = o.Err.Error()
	}
	logging.Info("list_item", fields)
}

// Count returns how many recorded outcomes are of kind o.
func (r ListResult) Count(o model.Outcome) int {
	n := 0
	for _, x := range r.Outcomes {
		if x.Outcome == o {
			n++
		}
	}
	return n
}
