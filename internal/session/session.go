// Package session holds the authenticated identity and the platform
// capability. Operations exist only on an authenticated *Session, which can
// only be obtained from Unauthenticated.Authenticate.
package session

import (
	"context"
	"errors"
	"fmt"

	"shredder/internal/logging"
	"shredder/internal/model"
)

// Platform is the slice of the platform API the deleter depends on.
type Platform interface {
	VerifyCredentials(ctx context.Context) (model.Identity, error)
	UserTimelinePage(ctx context.Context, userID int64, maxID int64, count int) ([]model.Post, error)
	GetPost(ctx context.Context, id int64) (model.Post, error)
	DeletePost(ctx context.Context, p model.Post) error
	UndoReshare(ctx context.Context, p model.Post) error
}

var ErrNotAuthenticated = errors.New("session: not authenticated")

// AuthError covers invalid or revoked credentials and an unreachable platform.
// It is always fatal to the run.
type AuthError struct{ Err error }

func (e *AuthError) Error() string { return fmt.Sprintf("authentication failed: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// Unauthenticated is a platform handle nobody has logged in with yet.
type Unauthenticated struct{ api Platform }

func New(api Platform) Unauthenticated { return Unauthenticated{api: api} }

// Authenticate verifies the credentials the platform client carries.
func (u Unauthenticated) Authenticate(ctx context.Context) (*Session, error) {
	if u.api == nil {
		return nil, &AuthError{Err: errors.New("no platform client")}
	}
	id, err := u.api.VerifyCredentials(ctx)
	if err != nil {
		logging.Error("auth_failed", map[string]any{"error": err.Error()})
		return nil, &AuthError{Err: err}
	}
	logging.Info("authenticated", map[string]any{"screen_name": id.ScreenName, "post_count": id.PostCount})
	return &Session{identity: id, api: u.api}, nil
}

// Session is an authenticated identity plus the capability to act as it.
// It is read-only after authentication.
type Session struct {
	identity model.Identity
	api      Platform
}

func (s *Session) ready() error {
	if s == nil || s.api == nil {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *Session) Identity() model.Identity {
	if s == nil {
		return model.Identity{}
	}
	return s.identity
}

func (s *Session) GetPost(ctx context.Context, id int64) (model.Post, error) {
	if err := s.ready(); err != nil {
		return model.Post{}, err
	}
	return s.api.GetPost(ctx, id)
}

func (s *Session) DeletePost(ctx context.Context, p model.Post) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.api.DeletePost(ctx, p)
}

func (s *Session) UndoReshare(ctx context.Context, p model.Post) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.api.UndoReshare(ctx, p)
}
