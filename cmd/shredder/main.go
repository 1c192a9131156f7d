package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"shredder/internal/cmdlog"
	"shredder/internal/config"
	"shredder/internal/logging"
	"shredder/internal/metrics"
	"shredder/internal/prompt"
	"shredder/internal/session"
	"shredder/internal/theme"
	"shredder/internal/xclient"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	var err error
	switch cmd {
	case "init":
		err = cmdlog.Run("init", func() error { return cmdInit(os.Args[2:]) })
	case "run":
		err = cmdlog.Run("run", func() error { return cmdRun(os.Args[2:]) })
	case "check":
		err = cmdlog.Run("check", func() error { return cmdCheck(os.Args[2:]) })
	case "pin":
		err = cmdlog.Run("pin", func() error { return cmdPIN(os.Args[2:]) })
	default:
		printHelp()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printHelp() {
	theme.PrintBanner(os.Stdout)
	fmt.Println("Usage: shredder <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at " + config.DefaultPath)
	fmt.Println("  run         Delete posts older than a cutoff, from the timeline and/or an ID file")
	fmt.Println("  check       Authenticate and test that the timeline can be read")
	fmt.Println("  pin         Obtain an access token and secret with PIN-based OAuth")
	fmt.Println("Run 'shredder <command> -h' for the options of a command.")
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", config.DefaultPath, "path to write config")
	_ = fs.Parse(args)
	if err := config.Save(*path, config.Default()); err != nil {
		return err
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner(os.Stdout)
	fmt.Println("Config written to:", abs)
	return nil
}

// setup loads config, points the JSON log at its file and starts the
// metrics server when an address is configured.
func setup(cfgPath string) (config.Config, func(), error) {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	closeLog := func() {}
	if cfg.Log.Path != "" {
		f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return cfg, nil, fmt.Errorf("open log: %w", err)
		}
		logging.Init(f, cfg.Log.Level)
		closeLog = func() { _ = f.Close() }
	} else {
		logging.Init(os.Stderr, cfg.Log.Level)
	}
	if cfg.Metrics.Addr != "" {
		metrics.StartServer(cfg.Metrics.Addr)
	}
	return cfg, closeLog, nil
}

func newClient(cfg config.Config) *xclient.V1Client {
	base := xclient.NewHTTPClient(xclient.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout(),
		RPS:         cfg.API.RPS,
		Burst:       cfg.API.Burst,
		MaxAttempts: cfg.API.MaxAttempts,
	})
	c := cfg.Credentials
	return xclient.NewV1Client(base, xclient.Credentials{
		ConsumerKey:    c.ConsumerKey,
		ConsumerSecret: c.ConsumerSecret,
		AccessToken:    c.AccessToken,
		AccessSecret:   c.AccessSecret,
	})
}

type credField struct {
	label string
	dst   *string
}

// askCredentials prompts for whichever credential is still empty.
func askCredentials(p *prompt.Prompter, c *config.CredentialsConfig, needAccess bool) error {
	fields := []credField{
		{"Consumer key: ", &c.ConsumerKey},
		{"Consumer secret: ", &c.ConsumerSecret},
	}
	if needAccess {
		fields = append(fields, credField{"Access token: ", &c.AccessToken}, credField{"Access token secret: ", &c.AccessSecret})
	}
	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		v, err := p.InputSecret(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath, "config path")
	var cf credFlags
	cf.register(fs)
	_ = fs.Parse(args)
	cfg, closeLog, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer closeLog()
	cf.apply(&cfg.Credentials)
	theme.PrintBanner(os.Stdout)
	if err := askCredentials(prompt.Stdio(), &cfg.Credentials, true); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	fmt.Println("Logging in...")
	sess, err := session.New(newClient(cfg)).Authenticate(ctx)
	if err != nil {
		return err
	}
	me := sess.Identity()
	fmt.Printf("Authenticated as @%s (%d posts)\n", me.ScreenName, me.PostCount)
	pages, err := sess.Timeline(5)
	if err != nil {
		return err
	}
	page, err := pages.Next(ctx)
	if err != nil {
		return fmt.Errorf("timeline read failed: %w", err)
	}
	fmt.Printf("Timeline read works: fetched %d of your most recent posts.\n", len(page))
	for _, p := range page {
		fmt.Println("  " + prompt.Line(p))
	}
	return nil
}

func cmdPIN(args []string) error {
	fs := flag.NewFlagSet("pin", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath, "config path")
	save := fs.Bool("save", false, "write the new access token and secret into the config file")
	var cf credFlags
	cf.register(fs)
	_ = fs.Parse(args)
	cfg, closeLog, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer closeLog()
	cf.apply(&cfg.Credentials)
	theme.PrintBanner(os.Stdout)
	p := prompt.Stdio()
	if err := askCredentials(p, &cfg.Credentials, false); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	v1 := newClient(cfg)
	fmt.Println("Requesting authorization URL...")
	rt, err := v1.RequestPINToken(ctx)
	if err != nil {
		return err
	}
	authURL, err := v1.AuthorizeURL(rt)
	if err != nil {
		return err
	}
	fmt.Println("Open this URL, authorize the app and copy the PIN it shows:")
	fmt.Println("  " + authURL)
	pin, err := p.InputString("PIN: ", false)
	if err != nil {
		return err
	}
	creds, err := v1.ExchangePIN(ctx, rt, pin)
	if err != nil {
		return err
	}
	fmt.Println("Authorization succeeded. Keep these somewhere safe:")
	fmt.Printf("CONSUMER KEY (unchanged): %s\n", creds.ConsumerKey)
	fmt.Printf("CONSUMER SECRET (unchanged): %s\n", creds.ConsumerSecret)
	fmt.Printf("ACCESS TOKEN (new): %s\n", creds.AccessToken)
	fmt.Printf("ACCESS TOKEN SECRET (new): %s\n", creds.AccessSecret)
	if !*save {
		return nil
	}
	cfg.Credentials = config.CredentialsConfig{
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: creds.ConsumerSecret,
		AccessToken:    creds.AccessToken,
		AccessSecret:   creds.AccessSecret,
	}
	if err := config.Save(*cfgPath, cfg); err != nil {
		return err
	}
	fmt.Println("Credentials saved to", *cfgPath)
	return nil
}
