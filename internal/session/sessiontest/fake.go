// Package sessiontest provides an in-memory platform for tests.
package sessiontest

import (
	"context"

	"shredder/internal/model"
	"shredder/internal/xclient"
)

// Fake serves canned timeline pages and posts and records every call.
type Fake struct {
	Me      model.Identity
	AuthErr error

	Pages    [][]model.Post // served in order, then empty pages
	PageErrs map[int]error  // by zero-based page index

	Posts    map[int64]model.Post
	GetErrs  map[int64]error
	DelErrs  map[int64]error // by post ID, for delete and undo alike

	PageCalls   []int64 // max_id per call
	GetCalls    []int64
	DeleteCalls []int64
	UndoCalls   []int64
}

// Status builds the platform error for a status code.
func Status(code int) error {
	return &xclient.APIError{Endpoint: "fake", StatusCode: code}
}

func (f *Fake) VerifyCredentials(ctx context.Context) (model.Identity, error) {
	if f.AuthErr != nil {
		return model.Identity{}, f.AuthErr
	}
	return f.Me, nil
}

func (f *Fake) UserTimelinePage(ctx context.Context, userID int64, maxID int64, count int) ([]model.Post, error) {
	i := len(f.PageCalls)
	f.PageCalls = append(f.PageCalls, maxID)
	if err := f.PageErrs[i]; err != nil {
		return nil, err
	}
	if i >= len(f.Pages) {
		return nil, nil
	}
	return f.Pages[i], nil
}

func (f *Fake) GetPost(ctx context.Context, id int64) (model.Post, error) {
	f.GetCalls = append(f.GetCalls, id)
	if err := f.GetErrs[id]; err != nil {
		return model.Post{}, err
	}
	p, ok := f.Posts[id]
	if !ok {
		return model.Post{}, Status(404)
	}
	return p, nil
}

func (f *Fake) DeletePost(ctx context.Context, p model.Post) error {
	f.DeleteCalls = append(f.DeleteCalls, p.ID)
	return f.DelErrs[p.ID]
}

func (f *Fake) UndoReshare(ctx context.Context, p model.Post) error {
	f.UndoCalls = append(f.UndoCalls, p.ID)
	return f.DelErrs[p.ID]
}

// Mutations is the total number of delete and undo calls issued.
func (f *Fake) Mutations() int { return len(f.DeleteCalls) + len(f.UndoCalls) }
