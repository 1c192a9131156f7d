package collect

import (
	"context"
	"fmt"

	"shredder/internal/logging"
	"shredder/internal/model"
	"shredder/internal/session"
)

// Timeline drains every reachable page of the user's timeline into one
// newest-first sequence. Posts are not filtered here. A failed page fetch
// fails the whole collection.
func Timeline(ctx context.Context, s *session.Session) ([]model.Post, error) {
	pages, err := s.Timeline(session.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	var all []model.Post
	for !pages.Done() {
		page, err := pages.Next(ctx)
		if err != nil {
			logging.Error("timeline_page_failed", map[string]any{"collected": len(all), "error": err.Error()})
			return nil, fmt.Errorf("fetch timeline page: %w", err)
		}
		all = append(all, page...)
	}
	logging.Info("timeline_collected", map[string]any{"screen_name": s.Identity().ScreenName, "posts": len(all)})
	return all, nil
}
