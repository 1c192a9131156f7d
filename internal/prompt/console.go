package prompt

import (
	"context"
	"fmt"
	"io"
	"time"

	"shredder/internal/model"
	"shredder/internal/sweep"
	"shredder/internal/util"
)

const previewWidth = 140

// Gate is the terminal confirmation gate: a final warning, then one key.
type Gate struct{ P *Prompter }

func (g Gate) Confirm(ctx context.Context, pv sweep.Preview) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	g.P.Printf("----------\n")
	g.P.Printf("LAST CHANCE: %d posts will be deleted and this cannot be undone.\n", pv.Count)
	g.P.Printf("Press Enter to start deleting. Press any other key to leave them alone.\n")
	g.P.Printf("----------\n")
	return g.P.WaitEnter("")
}

// Console prints the preview and per-item progress for a human.
type Console struct{ W io.Writer }

func (c Console) Preview(pv sweep.Preview) {
	if pv.Count == 1 {
		fmt.Fprintln(c.W, "Found one deletable post:")
	} else {
		fmt.Fprintf(c.W, "Found %d deletable posts, the earliest being:\n", pv.Count)
	}
	fmt.Fprintln(c.W, Line(pv.Earliest))
	fmt.Fprintln(c.W)
}

func (c Console) Outcome(o model.ItemOutcome) {
	if o.Post != nil {
		fmt.Fprintln(c.W, Line(*o.Post))
	}
	switch o.Outcome {
	case model.Deleted:
		fmt.Fprintln(c.W, "  deleted post")
	case model.DeletedReshare:
		fmt.Fprintln(c.W, "  undid reshare")
	case model.FailedNotFound:
		fmt.Fprintf(c.W, "  post %d no longer exists\n", o.PostID)
	case model.FailedRateLimited:
		fmt.Fprintln(c.W, "  rate limited by the platform, stopping; try again later")
	default:
		fmt.Fprintf(c.W, "  could not delete post %d: %v\n", o.PostID, o.Err)
	}
}

// Line renders a post as "<local time>: <text>" on a single line.
func Line(p model.Post) string {
	text := util.Truncate(util.NormalizeWhitespace(p.Text), previewWidth)
	return fmt.Sprintf("%s: %s", p.CreatedAt.Local().Format(time.DateTime), text)
}

// Summary prints the end-of-batch totals.
func Summary(w io.Writer, s model.RunSummary) {
	switch s.State {
	case model.NothingToDelete:
		fmt.Fprintln(w, "There are no posts old enough to be deleted.")
	case model.Aborted:
		fmt.Fprintln(w, "Nothing was deleted.")
		return
	default:
		fmt.Fprintf(w, "Deleted %d out of %d posts.\n", s.DeletedTotal(), s.Candidates)
		if s.RateLimited {
			fmt.Fprintf(w, "Stopped early: rate limited after %d attempts.\n", s.Attempted)
		}
	}
	if n := s.Skipped[model.SkippedHasMedia]; n > 0 {
		fmt.Fprintf(w, "Kept %d old enough posts with pictures or videos.\n", n)
	}
}
