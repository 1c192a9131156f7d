// Package sweep filters a candidate set, asks for confirmation once and
// deletes the survivors one at a time.
package sweep

import (
	"context"
	"time"

	"shredder/internal/logging"
	"shredder/internal/metrics"
	"shredder/internal/model"
	"shredder/internal/xclient"
)

// Deleter is the mutating half of the platform capability.
type Deleter interface {
	DeletePost(ctx context.Context, p model.Post) error
	UndoReshare(ctx context.Context, p model.Post) error
}

// Observer receives the preview and each outcome as they happen.
type Observer interface {
	Preview(p Preview)
	Outcome(o model.ItemOutcome)
}

// Recorder persists outcomes. Failures to record never stop a batch.
type Recorder interface {
	Record(ctx context.Context, o model.ItemOutcome) error
}

type Engine struct {
	API      Deleter
	Confirm  Confirmer
	Observer Observer
	Recorder Recorder
}

// Delete applies c to candidates and deletes what passes, in order.
// Every deletable post reached gets exactly one API call; a rate-limit answer
// stops the batch and leaves the rest without an outcome. Posts c keeps are
// tallied in RunSummary.Skipped.
func (e *Engine) Delete(ctx context.Context, candidates []model.Post, c model.Criteria, confirmed bool) (model.RunSummary, error) {
	start := time.Now()
	defer metrics.ObserveRunDuration(start)

	sum := model.RunSummary{Counts: map[model.Outcome]int{}, Skipped: map[model.Outcome]int{}}
	deletable := make([]model.Post, 0, len(candidates))
	for _, p := range candidates {
		if why, skip := c.Skip(p); skip {
			sum.Skipped[why]++
			metrics.IncOutcome(why.String())
			continue
		}
		deletable = append(deletable, p)
	}
	if n := sum.Skipped[model.SkippedHasMedia]; n > 0 {
		logging.Info("kept_media", map[string]any{"count": n})
	}
	sum.Candidates = len(deletable)
	if len(deletable) == 0 {
		sum.State = model.NothingToDelete
		logging.Info("nothing_to_delete", map[string]any{"candidates": len(candidates)})
		return sum, nil
	}

	earliest, _ := model.Earliest(deletable)
	sum.Earliest = &earliest
	pv := Preview{Count: len(deletable), Earliest: earliest}
	if e.Observer != nil {
		e.Observer.Preview(pv)
	}
	ok, err := e.gate(ctx, pv, confirmed)
	if err != nil || !ok {
		sum.State = model.Aborted
		return sum, err
	}

	failed := false
	for _, p := range deletable {
		if err := ctx.Err(); err != nil {
			sum.State = model.Partial
			return sum, err
		}
		o := e.deleteOne(ctx, p)
		sum.Attempted++
		e.record(ctx, &sum, o)
		if o.Outcome.Failed() {
			failed = true
		}
		if o.Outcome == model.FailedRateLimited {
			sum.RateLimited = true
			logging.Warn("rate_limited_halt", map[string]any{"done": sum.Attempted - 1, "total": sum.Candidates})
			break
		}
	}
	sum.State = model.Completed
	if failed {
		sum.State = model.Partial
	}
	logging.Info("batch_done", map[string]any{
		"state": sum.State.String(), "deleted": sum.DeletedTotal(), "attempted": sum.Attempted, "total": sum.Candidates,
	})
	return sum, nil
}

// deleteOne runs to completion once started: an interrupt is only honoured
// between items, so the call itself ignores cancellation of ctx.
func (e *Engine) deleteOne(ctx context.Context, p model.Post) model.ItemOutcome {
	post := p
	o := model.ItemOutcome{PostID: p.ID, Post: &post}
	callCtx := context.WithoutCancel(ctx)
	var err error
	if p.IsReshare {
		err = e.API.UndoReshare(callCtx, p)
		o.Outcome = model.DeletedReshare
	} else {
		err = e.API.DeletePost(callCtx, p)
		o.Outcome = model.Deleted
	}
	if err != nil {
		o.Outcome = xclient.ClassifyFailure(err)
		o.StatusCode = xclient.StatusCode(err)
		o.Err = err
	}
	return o
}

func (e *Engine) record(ctx context.Context, sum *model.RunSummary, o model.ItemOutcome) {
	sum.Counts[o.Outcome]++
	sum.Outcomes = append(sum.Outcomes, o)
	metrics.IncOutcome(o.Outcome.String())

	fields := map[string]any{"id": o.PostID, "outcome": o.Outcome.String()}
	if o.Err != nil {
		fields["status"] = o.StatusCode
		fields["error"] = o.Err.Error()
		logging.Warn("delete_failed", fields)
	} else {
		logging.Info("delete_ok", fields)
	}
	if e.Observer != nil {
		e.Observer.Outcome(o)
	}
	if e.Recorder != nil {
		if err := e.Recorder.Record(ctx, o); err != nil {
			logging.Error("record_failed", map[string]any{"id": o.PostID, "error": err.Error()})
		}
	}
}
