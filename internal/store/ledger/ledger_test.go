package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"shredder/internal/model"
)

func TestRunAndOutcomes(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()

	cutoff := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	run, err := db.StartRun(ctx, Run{ScreenName: "me", Mode: "timeline", Cutoff: cutoff})
	if err != nil {
		t.Fatal(err)
	}
	if run.ID == "" || run.StartedAt.IsZero() {
		t.Fatalf("run not stamped: %+v", run)
	}

	rec := Recorder{DB: db, RunID: run.ID}
	p := model.Post{ID: 1, CreatedAt: cutoff.AddDate(-1, 0, 0), Text: "hello"}
	for _, o := range []model.ItemOutcome{
		{PostID: 1, Post: &p, Outcome: model.Deleted},
		{PostID: 2, Outcome: model.FailedNotFound, StatusCode: 404, Err: errors.New("gone")},
		{PostID: 3, Outcome: model.Deleted},
	} {
		if err := rec.Record(ctx, o); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.FinishRun(ctx, run.ID, model.Partial.String()); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadOutcomes(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{PostID: 1, Outcome: "deleted"},
		{PostID: 2, Outcome: "failed_not_found", StatusCode: 404, Error: "gone"},
		{PostID: 3, Outcome: "deleted"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outcomes (-want +got):\n%s", diff)
	}
	counts, err := db.CountOutcomes(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"deleted": 2, "failed_not_found": 1}, counts); diff != "" {
		t.Fatalf("counts (-want +got):\n%s", diff)
	}

	back, err := db.LoadRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if back.State != "partial" || back.FinishedAt.IsZero() || !back.Cutoff.Equal(cutoff) || back.ScreenName != "me" {
		t.Fatalf("run mismatch: %+v", back)
	}
}

func TestRunsAreIsolated(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	a, _ := db.StartRun(ctx, Run{ScreenName: "me", Mode: "list"})
	b, _ := db.StartRun(ctx, Run{ScreenName: "me", Mode: "list"})
	if a.ID == b.ID {
		t.Fatal("run ids collide")
	}
	_ = db.PutOutcome(ctx, a.ID, model.ItemOutcome{PostID: 9, Outcome: model.SkippedDuplicate})
	got, err := db.LoadOutcomes(ctx, b.ID)
	if err != nil || len(got) != 0 {
		t.Fatalf("run b should be empty: %v %v", got, err)
	}
}
