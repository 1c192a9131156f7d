package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveLoadKeepsDefaultsForMissingFields(t *testing.T) {
	t.Setenv("X_CONSUMER_KEY", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("SHREDDER_MAX_AGE_DAYS", "")
	path := filepath.Join(t.TempDir(), "nested", "shredder.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("sweep:\n  maxAgeDays: 30\n  keepMedia: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sweep.MaxAgeDays == nil || *cfg.Sweep.MaxAgeDays != 30 {
		t.Fatalf("maxAgeDays not read: %+v", cfg.Sweep)
	}
	if cfg.Sweep.KeepMedia == nil || !*cfg.Sweep.KeepMedia {
		t.Fatalf("keepMedia not read")
	}
	if diff := cmp.Diff(Default().API, cfg.API); diff != "" {
		t.Fatalf("api defaults lost (-want +got):\n%s", diff)
	}

	out := filepath.Join(t.TempDir(), "a", "b.yaml")
	if err := Save(out, cfg); err != nil {
		t.Fatal(err)
	}
	back, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, back); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestResolveEnvFillsOnlyEmpty(t *testing.T) {
	t.Setenv("X_CONSUMER_KEY", "ck-env")
	t.Setenv("X_CONSUMER_SECRET", "cs-env")
	t.Setenv("X_ACCESS_TOKEN", "at-env")
	t.Setenv("X_ACCESS_SECRET", "as-env")
	t.Setenv("SHREDDER_MAX_AGE_DAYS", "7")
	cfg := Default()
	cfg.Credentials.ConsumerKey = "ck-file"
	cfg.ResolveEnv()
	want := CredentialsConfig{ConsumerKey: "ck-file", ConsumerSecret: "cs-env", AccessToken: "at-env", AccessSecret: "as-env"}
	if diff := cmp.Diff(want, cfg.Credentials); diff != "" {
		t.Fatalf("credentials (-want +got):\n%s", diff)
	}
	if !cfg.Credentials.Complete() {
		t.Fatal("expected complete credentials")
	}
	if cfg.Sweep.MaxAgeDays == nil || *cfg.Sweep.MaxAgeDays != 7 {
		t.Fatalf("max age from env: %v", cfg.Sweep.MaxAgeDays)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Fatalf("expected defaults, got %+v", cfg.API)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load should fail on a missing file")
	}
}

func TestSaveRejectsEmptyPath(t *testing.T) {
	if err := Save("", Default()); err == nil {
		t.Fatal("expected error")
	}
}
