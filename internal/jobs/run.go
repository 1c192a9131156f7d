package jobs

import (
	"context"
	"errors"
	"time"

	"shredder/internal/collect"
	"shredder/internal/logging"
	"shredder/internal/model"
	"shredder/internal/session"
	"shredder/internal/store/ledger"
	"shredder/internal/sweep"
)

// ErrNothingSelected is returned when neither the timeline nor an ID file is
// selected.
var ErrNothingSelected = errors.New("jobs: no collection mode selected")

// Options selects what one invocation collects and how it deletes.
type Options struct {
	Criteria  model.Criteria
	Confirmed bool
	Timeline  bool
	IDFile    string
}

// Mode names the selected collection modes, e.g. "timeline+list".
func (o Options) Mode() string {
	switch {
	case o.Timeline && o.IDFile != "":
		return "timeline+list"
	case o.Timeline:
		return "timeline"
	case o.IDFile != "":
		return "list"
	}
	return "none"
}

// Batch is one collection mode's result.
type Batch struct {
	Mode    string
	List    *collect.ListResult // list mode only
	Summary model.RunSummary
}

// Report is everything one invocation did.
type Report struct {
	RunID       string
	Identity    model.Identity
	Batches     []Batch
	RateLimited bool
}

// Deleted totals deletions across batches.
func (r Report) Deleted() int {
	n := 0
	for _, b := range r.Batches {
		n += b.Summary.DeletedTotal()
	}
	return n
}

// Pipeline runs the timeline batch, then the list batch. Engine.API and
// Engine.Recorder are bound per run.
type Pipeline struct {
	Engine sweep.Engine
	Ledger *ledger.DB

	// Optional progress hooks for a console.
	OnAuthenticated func(model.Identity)
	OnPhase         func(phase string)
	OnListCollected func(collect.ListResult)
}

// Run reads the ID file before touching the network, authenticates, and runs
// each selected batch. A rate limit anywhere stops the run: later batches are
// skipped and it is reported through Report.RateLimited rather than an error.
func (p *Pipeline) Run(ctx context.Context, u session.Unauthenticated, opts Options) (Report, error) {
	var rep Report
	if !opts.Timeline && opts.IDFile == "" {
		return rep, ErrNothingSelected
	}
	var ids []int64
	if opts.IDFile != "" {
		var err error
		if ids, err = collect.LoadIDFile(opts.IDFile); err != nil {
			logging.Error("id_file_rejected", map[string]any{"path": opts.IDFile, "error": err.Error()})
			return rep, err
		}
	}

	sess, err := u.Authenticate(ctx)
	if err != nil {
		return rep, err
	}
	rep.Identity = sess.Identity()
	if p.OnAuthenticated != nil {
		p.OnAuthenticated(rep.Identity)
	}

	eng := p.Engine
	eng.API = sess
	if p.Ledger != nil {
		run, err := p.Ledger.StartRun(ctx, ledger.Run{ScreenName: rep.Identity.ScreenName, Mode: opts.Mode(), Cutoff: opts.Criteria.Cutoff})
		if err != nil {
			return rep, err
		}
		rep.RunID = run.ID
		eng.Recorder = ledger.Recorder{DB: p.Ledger, RunID: run.ID}
		defer func() { p.finish(rep) }()
	}
	logging.Info("run_start", map[string]any{"run_id": rep.RunID, "mode": opts.Mode(), "cutoff": opts.Criteria.Cutoff.Format(time.RFC3339), "keep_media": opts.Criteria.KeepMedia})

	if opts.Timeline {
		p.phase("timeline")
		posts, err := collect.Timeline(ctx, sess)
		if err != nil {
			return rep, err
		}
		sum, err := eng.Delete(ctx, posts, opts.Criteria, opts.Confirmed)
		rep.Batches = append(rep.Batches, Batch{Mode: "timeline", Summary: sum})
		if err != nil {
			return rep, err
		}
		if sum.RateLimited {
			rep.RateLimited = true
			logging.Warn("run_rate_limited", map[string]any{"batch": "timeline", "skipped_list": opts.IDFile != ""})
			return rep, nil
		}
	}

	if opts.IDFile != "" {
		p.phase("list")
		res, err := collect.FromIDs(ctx, sess, ids, opts.Criteria)
		p.recordList(ctx, eng.Recorder, res)
		if p.OnListCollected != nil {
			p.OnListCollected(res)
		}
		if res.RateLimited {
			rep.Batches = append(rep.Batches, Batch{Mode: "list", List: &res, Summary: model.RunSummary{State: model.Aborted, RateLimited: true}})
			rep.RateLimited = true
			logging.Warn("run_rate_limited", map[string]any{"batch": "list", "loaded": res.Loaded})
			return rep, nil
		}
		if err != nil {
			return rep, err
		}
		sum, err := eng.Delete(ctx, res.Posts, opts.Criteria, opts.Confirmed)
		rep.Batches = append(rep.Batches, Batch{Mode: "list", List: &res, Summary: sum})
		if err != nil {
			return rep, err
		}
		rep.RateLimited = sum.RateLimited
	}
	return rep, nil
}

func (p *Pipeline) phase(name string) {
	logging.Info("phase", map[string]any{"phase": name})
	if p.OnPhase != nil {
		p.OnPhase(name)
	}
}

// recordList appends list-mode skip and fetch outcomes to the ledger.
func (p *Pipeline) recordList(ctx context.Context, rec sweep.Recorder, res collect.ListResult) {
	if rec == nil {
		return
	}
	for _, o := range res.Outcomes {
		if err := rec.Record(ctx, o); err != nil {
			logging.Error("record_failed", map[string]any{"id": o.PostID, "error": err.Error()})
		}
	}
}

func (p *Pipeline) finish(rep Report) {
	state := "completed"
	for _, b := range rep.Batches {
		if b.Summary.State != model.Completed && b.Summary.State != model.NothingToDelete {
			state = b.Summary.State.String()
		}
	}
	if rep.RateLimited {
		state = "rate_limited"
	}
	// The run context may already be cancelled.
	if err := p.Ledger.FinishRun(context.Background(), rep.RunID, state); err != nil {
		logging.Error("finish_run_failed", map[string]any{"run_id": rep.RunID, "error": err.Error()})
	}
}
