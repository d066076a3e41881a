package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileWritesTemplateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdash", "config.json")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Poll.IntervalDuration() != DefaultPollInterval {
		t.Errorf("interval = %v, want %v", cfg.Poll.IntervalDuration(), DefaultPollInterval)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	// The written template must parse back to the same defaults.
	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(template): %v", err)
	}
	if again != cfg {
		t.Errorf("template config = %+v, want %+v", again, cfg)
	}
}

func TestLoadFilePartialConfigGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `// comment line
{
  "api": {
    // inline documentation
    "base_url": "https://dash.example.com/",
    "token": "abc"
  }
}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != "https://dash.example.com/" || cfg.API.Token != "abc" {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.API.TimeoutDuration() != DefaultTimeout {
		t.Errorf("timeout = %v, want default", cfg.API.TimeoutDuration())
	}
	if cfg.Poll.LogLimit != DefaultLogLimit {
		t.Errorf("LogLimit = %d, want %d", cfg.Poll.LogLimit, DefaultLogLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api": {"token": "from-file"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HDASH_TOKEN", "from-env")
	t.Setenv("HDASH_BASE_URL", "http://env.example.com")
	t.Setenv("HDASH_POLL_INTERVAL", "5s")
	t.Setenv("HDASH_POLL_LOG_LIMIT", "10")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.Token != "from-env" || cfg.API.BaseURL != "http://env.example.com" {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Poll.IntervalDuration() != 5*time.Second || cfg.Poll.LogLimit != 10 {
		t.Errorf("Poll = %+v", cfg.Poll)
	}
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("fallback config = %+v, want defaults", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{API: APIConfig{BaseURL: "http://x", Token: "t"}}, false},
		{"no url", Config{API: APIConfig{Token: "t"}}, true},
		{"no token", Config{API: APIConfig{BaseURL: "http://x"}}, true},
		{"bad timeout", Config{API: APIConfig{BaseURL: "http://x", Token: "t", Timeout: "soon"}}, true},
		{"bad interval", Config{API: APIConfig{BaseURL: "http://x", Token: "t"}, Poll: PollConfig{Interval: "often"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStripLineComments(t *testing.T) {
	in := []byte("  // a\n{\"x\": 1}\n\t// b\n")
	got := string(stripLineComments(in))
	if got != "{\"x\": 1}\n\n" {
		t.Errorf("stripLineComments = %q", got)
	}
}
