package main

import (
	"flag"

	"shredder/internal/config"
)

// credFlags are the four OAuth1 credentials, each with a short and long name.
type credFlags struct {
	consumerKey, consumerSecret, accessToken, accessSecret string
}

func (f *credFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.consumerKey, "c", "", "consumer key (also --consumer-key)")
	fs.StringVar(&f.consumerKey, "consumer-key", "", "consumer key")
	fs.StringVar(&f.consumerSecret, "C", "", "consumer secret (also --consumer-secret)")
	fs.StringVar(&f.consumerSecret, "consumer-secret", "", "consumer secret")
	fs.StringVar(&f.accessToken, "a", "", "access token (also --access-token)")
	fs.StringVar(&f.accessToken, "access-token", "", "access token")
	fs.StringVar(&f.accessSecret, "A", "", "access token secret (also --access-token-secret)")
	fs.StringVar(&f.accessSecret, "access-token-secret", "", "access token secret")
}

// apply overrides file and env credentials with whatever was given.
func (f credFlags) apply(c *config.CredentialsConfig) {
	if f.consumerKey != "" {
		c.ConsumerKey = f.consumerKey
	}
	if f.consumerSecret != "" {
		c.ConsumerSecret = f.consumerSecret
	}
	if f.accessToken != "" {
		c.AccessToken = f.accessToken
	}
	if f.accessSecret != "" {
		c.AccessSecret = f.accessSecret
	}
}

// runFlags are the deletion options of the run command.
type runFlags struct {
	creds     credFlags
	cfgPath   string
	maxAge    int
	idFile    string
	onlyList  string
	keepMedia bool
	goAhead   bool

	set map[string]bool
}

func newRunFlags(name string) (*flag.FlagSet, *runFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	f := &runFlags{}
	f.creds.register(fs)
	fs.StringVar(&f.cfgPath, "config", config.DefaultPath, "config path")
	fs.IntVar(&f.maxAge, "M", -1, "delete posts older than this many days, 0 deletes all (also --max-tweet-age)")
	fs.IntVar(&f.maxAge, "max-tweet-age", -1, "delete posts older than this many days, 0 deletes all")
	fs.StringVar(&f.idFile, "t", "", "file of post IDs to delete in addition to the timeline (also --tweet-list)")
	fs.StringVar(&f.idFile, "tweet-list", "", "file of post IDs to delete in addition to the timeline")
	fs.StringVar(&f.onlyList, "T", "", "file of post IDs to delete, skipping the timeline (also --only-tweet-list)")
	fs.StringVar(&f.onlyList, "only-tweet-list", "", "file of post IDs to delete, skipping the timeline")
	fs.BoolVar(&f.keepMedia, "k", false, "never delete posts with attached media (also --keep-media)")
	fs.BoolVar(&f.keepMedia, "keep-media", false, "never delete posts with attached media")
	fs.BoolVar(&f.goAhead, "y", false, "skip every confirmation")
	return fs, f
}

// parse runs fs and remembers which flags were given explicitly.
func (f *runFlags) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return nil
}

func (f *runFlags) given(names ...string) bool {
	for _, n := range names {
		if f.set[n] {
			return true
		}
	}
	return false
}

// apply layers explicit flags over cfg.
func (f *runFlags) apply(cfg *config.Config) {
	f.creds.apply(&cfg.Credentials)
	if f.given("M", "max-tweet-age") && f.maxAge >= 0 {
		days := f.maxAge
		cfg.Sweep.MaxAgeDays = &days
	}
	if f.onlyList != "" {
		cfg.Sweep.IDFile = f.onlyList
		cfg.Sweep.OnlyIDFile = true
	} else if f.idFile != "" {
		cfg.Sweep.IDFile = f.idFile
		cfg.Sweep.OnlyIDFile = false
	}
	if f.given("k", "keep-media") {
		keep := f.keepMedia
		cfg.Sweep.KeepMedia = &keep
	}
	if f.goAhead {
		cfg.Sweep.GoAhead = true
	}
}
