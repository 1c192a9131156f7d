package main

import (
	"fmt"
	"os"
	"time"

	"shredder/internal/collect"
	"shredder/internal/config"
	"shredder/internal/jobs"
	"shredder/internal/model"
	"shredder/internal/prompt"
	"shredder/internal/session"
	"shredder/internal/store/ledger"
	"shredder/internal/sweep"
	"shredder/internal/theme"
)

const maxAgeLimit = 365 * 100

func cmdRun(args []string) error {
	fs, rf := newRunFlags("run")
	if err := rf.parse(fs, args); err != nil {
		return err
	}
	cfg, closeLog, err := setup(rf.cfgPath)
	if err != nil {
		return err
	}
	defer closeLog()
	rf.apply(&cfg)

	theme.PrintBanner(os.Stdout)
	p := prompt.Stdio()
	if err := askCredentials(p, &cfg.Credentials, true); err != nil {
		return err
	}
	if err := askSweep(p, &cfg.Sweep); err != nil {
		return err
	}

	now := time.Now()
	opts := jobs.Options{
		Criteria:  model.Criteria{Cutoff: model.CutoffFromDays(*cfg.Sweep.MaxAgeDays, now), KeepMedia: *cfg.Sweep.KeepMedia},
		Confirmed: cfg.Sweep.GoAhead,
		Timeline:  !cfg.Sweep.OnlyIDFile,
		IDFile:    cfg.Sweep.IDFile,
	}
	describe(opts, *cfg.Sweep.MaxAgeDays)
	if !opts.Confirmed {
		ok, err := p.WaitEnter("Does this look right to you? Press Enter to continue, any other key to quit. ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing was deleted.")
			return nil
		}
	}

	pl := &jobs.Pipeline{
		Engine: sweep.Engine{Confirm: prompt.Gate{P: p}, Observer: prompt.Console{W: os.Stdout}},
		OnAuthenticated: func(id model.Identity) {
			fmt.Printf("Authenticated as @%s (%d posts)\n\n", id.ScreenName, id.PostCount)
		},
		OnPhase: func(phase string) {
			if phase == "timeline" {
				fmt.Println("Retrieving all posts from your timeline...")
			} else {
				fmt.Println("Loading the posts listed in", opts.IDFile, "...")
			}
		},
		OnListCollected: func(r collect.ListResult) {
			fmt.Printf("Out of %d listed posts, %d could be loaded and %d are old enough to delete.\n",
				r.Listed, r.Loaded, len(r.Posts))
			if n := r.Count(model.SkippedDuplicate); n > 0 {
				fmt.Printf("%d listed IDs were duplicates and were skipped.\n", n)
			}
		},
	}
	if cfg.Storage.DBPath != "" {
		db, err := ledger.Open(cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer db.Close()
		pl.Ledger = db
	}

	ctx, cancel := signalContext()
	defer cancel()
	fmt.Println("Logging in...")
	rep, err := pl.Run(ctx, session.New(newClient(cfg)), opts)
	for _, b := range rep.Batches {
		fmt.Printf("\n[%s] ", b.Mode)
		prompt.Summary(os.Stdout, b.Summary)
	}
	if err != nil {
		return err
	}
	if rep.RateLimited {
		fmt.Println("\nThe platform rate limited this account. Wait a while and run shredder again to continue.")
		return nil
	}
	if rep.RunID != "" {
		fmt.Printf("\nRun %s recorded in %s\n", rep.RunID, cfg.Storage.DBPath)
	}
	fmt.Println("All done.")
	return nil
}

// askSweep fills in the deletion settings nobody configured.
func askSweep(p *prompt.Prompter, s *config.SweepConfig) error {
	if s.MaxAgeDays == nil || *s.MaxAgeDays < 0 {
		days, err := p.InputInt("Delete posts older than how many days? (0 deletes everything) ", 0, maxAgeLimit)
		if err != nil {
			return err
		}
		s.MaxAgeDays = &days
	}
	if s.KeepMedia == nil {
		keep := false
		if !s.GoAhead {
			var err error
			if keep, err = p.YesNo("Keep posts with pictures or videos? [y/N] "); err != nil {
				return err
			}
		}
		s.KeepMedia = &keep
	}
	return nil
}

func describe(opts jobs.Options, days int) {
	if days == 0 {
		fmt.Println("Selected mode: delete all posts")
	} else {
		fmt.Printf("Selected mode: delete all posts made before %s\n", opts.Criteria.Cutoff.Format(time.DateOnly))
	}
	if opts.Criteria.KeepMedia {
		fmt.Println("Posts with pictures or videos are kept.")
	}
	switch opts.Mode() {
	case "timeline":
		fmt.Println("Source: your timeline")
	case "list":
		fmt.Println("Source: only the IDs listed in", opts.IDFile)
	case "timeline+list":
		fmt.Println("Source: your timeline, then the IDs listed in", opts.IDFile)
	}
	fmt.Println()
}
