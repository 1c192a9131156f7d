// Package ledger keeps an append-only SQLite audit trail of deletion runs.
// Nothing is ever read back to resume a run.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"shredder/internal/model"
)

// DB wraps the SQLite ledger.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection.
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
	  id TEXT PRIMARY KEY,
	  started_at INTEGER NOT NULL,
	  finished_at INTEGER,
	  screen_name TEXT NOT NULL,
	  mode TEXT NOT NULL,
	  cutoff INTEGER NOT NULL,
	  state TEXT
	);
	CREATE TABLE IF NOT EXISTS outcomes (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  run_id TEXT NOT NULL REFERENCES runs(id),
	  post_id INTEGER NOT NULL,
	  outcome TEXT NOT NULL,
	  status_code INTEGER NOT NULL DEFAULT 0,
	  posted_at INTEGER,
	  text TEXT,
	  error TEXT,
	  created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	`)
	return err
}

// Run is one invocation of the tool.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	ScreenName string
	Mode       string
	Cutoff     time.Time
	State      string
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.NewString() }

// StartRun inserts r, assigning an ID and start time when they are zero.
func (d *DB) StartRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}
	_, err := d.sql.ExecContext(ctx, `INSERT INTO runs(id, started_at, screen_name, mode, cutoff) VALUES(?,?,?,?,?)`,
		r.ID, r.StartedAt.Unix(), r.ScreenName, r.Mode, r.Cutoff.Unix())
	return r, err
}

// FinishRun stamps the run with its final state.
func (d *DB) FinishRun(ctx context.Context, runID, state string) error {
	_, err := d.sql.ExecContext(ctx, `UPDATE runs SET finished_at=?, state=? WHERE id=?`, time.Now().UTC().Unix(), state, runID)
	return err
}

// LoadRun returns the stored run.
func (d *DB) LoadRun(ctx context.Context, runID string) (Run, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT id, started_at, COALESCE(finished_at, 0), screen_name, mode, cutoff, COALESCE(state, '') FROM runs WHERE id=?`, runID)
	var r Run
	var started, finished, cutoff int64
	if err := row.Scan(&r.ID, &started, &finished, &r.ScreenName, &r.Mode, &cutoff, &r.State); err != nil {
		return Run{}, err
	}
	r.StartedAt = time.Unix(started, 0).UTC()
	if finished != 0 {
		r.FinishedAt = time.Unix(finished, 0).UTC()
	}
	r.Cutoff = time.Unix(cutoff, 0)
	return r, nil
}

// PutOutcome appends one item outcome to a run.
func (d *DB) PutOutcome(ctx context.Context, runID string, o model.ItemOutcome) error {
	var postedAt *int64
	var text *string
	if o.Post != nil {
		ts := o.Post.CreatedAt.Unix()
		postedAt = &ts
		text = &o.Post.Text
	}
	var errText *string
	if o.Err != nil {
		s := o.Err.Error()
		errText = &s
	}
	_, err := d.sql.ExecContext(ctx, `INSERT INTO outcomes(run_id, post_id, outcome, status_code, posted_at, text, error, created_at) VALUES(?,?,?,?,?,?,?,?)`,
		runID, o.PostID, o.Outcome.String(), o.StatusCode, postedAt, text, errText, time.Now().UTC().Unix())
	return err
}

// Entry is a stored outcome row.
type Entry struct {
	PostID     int64
	Outcome    string
	StatusCode int
	Error      string
}

// LoadOutcomes returns a run's outcomes in the order they were recorded.
func (d *DB) LoadOutcomes(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT post_id, outcome, status_code, COALESCE(error, '') FROM outcomes WHERE run_id=? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PostID, &e.Outcome, &e.StatusCode, &e.Error); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountOutcomes returns per-outcome totals for a run.
func (d *DB) CountOutcomes(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM outcomes WHERE run_id=? GROUP BY outcome`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

// Recorder binds a run to the ledger so a deletion batch can append to it.
type Recorder struct {
	DB    *DB
	RunID string
}

func (r Recorder) Record(ctx context.Context, o model.ItemOutcome) error {
	return r.DB.PutOutcome(ctx, r.RunID, o)
}
