package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the root configuration for hdash, stored in ~/.hdash/config.json.
// The file supports single-line // comments for documentation purposes.
// HDASH_* environment variables (optionally from a .env file) override it.
type Config struct {
	API  APIConfig  `json:"api"`
	Poll PollConfig `json:"poll"`
}

// APIConfig holds the dashboard service connection settings.
type APIConfig struct {
	// BaseURL is the service root, e.g. "https://dash.example.com".
	BaseURL string `json:"base_url" split_words:"true"`
	// Token is the static bearer credential (the service's DASHBOARD_SECRET).
	Token string `json:"token" split_words:"true"`
	// Timeout bounds a single request, as a Go duration string.
	Timeout string `json:"timeout" split_words:"true"`
	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" split_words:"true"`
}

// PollConfig holds the refresh settings used by `hdash watch`. Its
// environment overrides are HDASH_POLL_INTERVAL and HDASH_POLL_LOG_LIMIT.
type PollConfig struct {
	// Interval between refresh cycles, as a Go duration string.
	Interval string `json:"interval" split_words:"true"`
	// LogLimit is the number of operation log lines kept in view.
	LogLimit int `json:"log_limit" split_words:"true"`
}

const (
	// EnvPrefix prefixes every environment override, e.g. HDASH_BASE_URL.
	EnvPrefix = "HDASH"
	// DefaultBaseURL matches the service's development listen address.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second
	// DefaultPollInterval is the watch refresh cadence.
	DefaultPollInterval = 30 * time.Second
	// DefaultLogLimit is the number of log lines shown.
	DefaultLogLimit = 50
)

// TimeoutDuration returns the parsed request timeout, or DefaultTimeout.
func (c APIConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, DefaultTimeout)
}

// IntervalDuration returns the parsed poll interval, or DefaultPollInterval.
func (c PollConfig) IntervalDuration() time.Duration {
	return parseDuration(c.Interval, DefaultPollInterval)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate reports settings that would make every request fail.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is not set (config file or HDASH_BASE_URL)")
	}
	if c.API.Token == "" {
		return errors.New("api.token is not set (config file or HDASH_TOKEN)")
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
	}
	if c.Poll.Interval != "" {
		if _, err := time.ParseDuration(c.Poll.Interval); err != nil {
			return fmt.Errorf("poll.interval: %w", err)
		}
	}
	return nil
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout.String(),
		},
		Poll: PollConfig{
			Interval: DefaultPollInterval.String(),
			LogLimit: DefaultLogLimit,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// hdash configuration – ~/.hdash/config.json
//
// Every value can be overridden with an environment variable (or a .env
// file in the working directory), e.g. HDASH_BASE_URL, HDASH_TOKEN.
{
  // ── Dashboard API ────────────────────────────────────────────────────────
  "api": {
    // Root URL of the dashboard service. A trailing slash is ignored.
    "base_url": "http://localhost:8000",

    // Bearer token accepted by the service (its DASHBOARD_SECRET).
    // Prefer HDASH_TOKEN over storing the secret here.
    "token": "",

    // Per-request timeout as a Go duration, e.g. "15s".
    "timeout": "15s",

    // Maximum requests per second sent to the service. 0 = unlimited.
    "requests_per_second": 0
  },

  // ── Refresh ──────────────────────────────────────────────────────────────
  "poll": {
    // How often ` + "`hdash watch`" + ` re-reads the service.
    "interval": "30s",

    // Number of operation log lines to show.
    "log_limit": 50
  }
}
`

// FilePath returns the path to ~/.hdash/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hdash", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.hdash/config.json (creating it with annotated defaults on
// first run), then applies .env and HDASH_* environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit config file path.
func LoadFile(path string) (Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return cfg, err
	}

	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg.API); err != nil {
		return cfg, fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}
	if err := envconfig.Process(EnvPrefix+"_POLL", &cfg.Poll); err != nil {
		return cfg, fmt.Errorf("reading %s_POLL_* environment: %w", EnvPrefix, err)
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = def.API.Timeout
	}
	if cfg.Poll.Interval == "" {
		cfg.Poll.Interval = def.Poll.Interval
	}
	if cfg.Poll.LogLimit <= 0 {
		cfg.Poll.LogLimit = def.Poll.LogLimit
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
