package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where init writes and run looks when no -config is given.
const DefaultPath = "./shredder.yaml"

// Config is the application's configuration model.
// It captures credentials, deletion settings, and the ambient services.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Sweep       SweepConfig       `yaml:"sweep"`
	API         APIConfig         `yaml:"api"`
	Storage     StorageConfig     `yaml:"storage"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Log         LogConfig         `yaml:"log"`
}

// CredentialsConfig holds OAuth1.0a user-context credentials.
// Empty fields are read from X_CONSUMER_KEY, X_CONSUMER_SECRET,
// X_ACCESS_TOKEN and X_ACCESS_SECRET.
type CredentialsConfig struct {
	ConsumerKey    string `yaml:"consumerKey"`
	ConsumerSecret string `yaml:"consumerSecret"`
	AccessToken    string `yaml:"accessToken"`
	AccessSecret   string `yaml:"accessSecret"`
}

// Complete reports whether all four credentials are present.
func (c CredentialsConfig) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

type SweepConfig struct {
	// Posts younger than this many days are kept. 0 deletes everything.
	// nil means ask at startup.
	MaxAgeDays *int `yaml:"maxAgeDays,omitempty"`
	// Never delete posts with attached media. nil means ask at startup.
	KeepMedia *bool `yaml:"keepMedia,omitempty"`
	// File with one post ID per line.
	IDFile string `yaml:"idFile"`
	// Process only IDFile and skip the timeline.
	OnlyIDFile bool `yaml:"onlyIdFile"`
	// Skip every interactive confirmation.
	GoAhead bool `yaml:"goAhead"`
}

type APIConfig struct {
	BaseURL        string  `yaml:"baseURL"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
	MaxAttempts    int     `yaml:"maxAttempts"`
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type StorageConfig struct {
	// Audit ledger path. Empty disables the ledger.
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	// Listen address for /metrics and /health. Empty disables the server.
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		API:     APIConfig{BaseURL: "https://api.twitter.com", TimeoutSeconds: 20, RPS: 1, Burst: 5, MaxAttempts: 3},
		Storage: StorageConfig{DBPath: "./shredder.db"},
		Log:     LogConfig{Level: "info", Path: "./shredder.log"},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Credentials.ConsumerKey == "" {
		c.Credentials.ConsumerKey = os.Getenv("X_CONSUMER_KEY")
	}
	if c.Credentials.ConsumerSecret == "" {
		c.Credentials.ConsumerSecret = os.Getenv("X_CONSUMER_SECRET")
	}
	if c.Credentials.AccessToken == "" {
		c.Credentials.AccessToken = os.Getenv("X_ACCESS_TOKEN")
	}
	if c.Credentials.AccessSecret == "" {
		c.Credentials.AccessSecret = os.Getenv("X_ACCESS_SECRET")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
	if c.Sweep.MaxAgeDays == nil {
		if v := os.Getenv("SHREDDER_MAX_AGE_DAYS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				c.Sweep.MaxAgeDays = &n
			}
		}
	}
}

// Load reads YAML config from path. Fields the file leaves out keep their
// Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default plus env.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ResolveEnv()
		return cfg, nil
	}
	return cfg, err
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
