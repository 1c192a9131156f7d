package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestFilterByAgeBoundaryIsExclusive(t *testing.T) {
	cutoff := day(2022, 1, 1)
	posts := []Post{
		{ID: 1, CreatedAt: cutoff.Add(-time.Second)},
		{ID: 2, CreatedAt: cutoff},
		{ID: 3, CreatedAt: cutoff.Add(time.Second)},
	}
	got := FilterByAge(posts, cutoff)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only post 1, got %+v", got)
	}
}

func TestFilterByAgeIsIdempotent(t *testing.T) {
	cutoff := day(2022, 1, 1)
	posts := []Post{
		{ID: 1, CreatedAt: day(2020, 1, 1)},
		{ID: 2, CreatedAt: day(2023, 3, 1)},
		{ID: 3, CreatedAt: day(2021, 6, 15)},
	}
	first := FilterByAge(posts, cutoff)
	second := FilterByAge(posts, cutoff)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("filter not pure (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, FilterByAge(first, cutoff)); diff != "" {
		t.Fatalf("refiltering changed the set:\n%s", diff)
	}
}

func TestKeepMediaProtectsPosts(t *testing.T) {
	c := Criteria{Cutoff: day(2022, 1, 1), KeepMedia: true}
	if c.Deletable(Post{CreatedAt: day(2020, 1, 1), HasMedia: true}) {
		t.Fatalf("media post should be kept")
	}
	if !c.Deletable(Post{CreatedAt: day(2020, 1, 1)}) {
		t.Fatalf("plain old post should be deletable")
	}
}

func TestCutoffFromDays(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.Local)
	if got := CutoffFromDays(0, now); !got.Equal(now) {
		t.Fatalf("zero days should mean now, got %v", got)
	}
	want := time.Date(2024, 3, 3, 0, 0, 0, 0, time.Local)
	if got := CutoffFromDays(7, now); !got.Equal(want) {
		t.Fatalf("cutoff mismatch: want %v got %v", want, got)
	}
}

func TestEarliest(t *testing.T) {
	if _, ok := Earliest(nil); ok {
		t.Fatalf("expected no earliest post for empty input")
	}
	posts := []Post{
		{ID: 3, CreatedAt: day(2021, 6, 15)},
		{ID: 1, CreatedAt: day(2020, 1, 1)},
		{ID: 2, CreatedAt: day(2020, 5, 1)},
	}
	p, ok := Earliest(posts)
	if !ok || p.ID != 1 {
		t.Fatalf("expected post 1, got %+v", p)
	}
}

func TestOutcomeString(t *testing.T) {
	if FailedNotFound.String() != "failed_not_found" {
		t.Fatalf("unexpected name %q", FailedNotFound.String())
	}
	if Outcome(99).String() != "unknown" {
		t.Fatalf("out of range outcome should be unknown")
	}
}
