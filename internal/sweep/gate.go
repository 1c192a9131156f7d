package sweep

import (
	"context"
	"errors"

	"shredder/internal/logging"
	"shredder/internal/model"
)

// ErrNoConfirmer is returned when a batch needs a human answer but the
// engine has nobody to ask.
var ErrNoConfirmer = errors.New("sweep: confirmation required but no confirmer configured")

// Preview is what the human sees before agreeing to a batch.
type Preview struct {
	Count    int
	Earliest model.Post
}

// Confirmer blocks until a human accepts or declines the batch.
type Confirmer interface {
	Confirm(ctx context.Context, p Preview) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Preview) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Preview) (bool, error) { return f(ctx, p) }

// gate runs once per batch, after the preview and before any mutation.
func (e *Engine) gate(ctx context.Context, p Preview, confirmed bool) (bool, error) {
	if confirmed {
		logging.Info("gate_skipped", map[string]any{"count": p.Count})
		return true, nil
	}
	if e.Confirm == nil {
		return false, ErrNoConfirmer
	}
	ok, err := e.Confirm.Confirm(ctx, p)
	if err != nil {
		logging.Error("gate_failed", map[string]any{"error": err.Error()})
		return false, err
	}
	logging.Info("gate_answered", map[string]any{"count": p.Count, "accepted": ok})
	return ok, nil
}
