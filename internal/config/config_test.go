package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points config lookups at a temp dir and clears MINUTES_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MINUTES_CONFIG_DIR", dir)
	for _, k := range []string{
		"MINUTES_SERVER_URL", "MINUTES_TIMEOUT", "MINUTES_PROGRESS_INTERVAL",
		"MINUTES_STATE_DIR", "MINUTES_SESSION", "MINUTES_LANGUAGE",
		"MINUTES_LOG_LEVEL", "MINUTES_LOG_FILE", "MINUTES_TOKEN", "MINUTES_DEBUG",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %v, want %v", cfg.ServerURL, DefaultServerURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.ProgressInterval != 400*time.Millisecond {
		t.Errorf("ProgressInterval = %v, want 400ms", cfg.ProgressInterval)
	}
	if cfg.StateDir != dir {
		t.Errorf("StateDir = %v, want %v", cfg.StateDir, dir)
	}
	if cfg.LogPath() != filepath.Join(dir, "minutes.log") {
		t.Errorf("LogPath = %v", cfg.LogPath())
	}
	if cfg.DefaultLanguage() != "auto" {
		t.Errorf("DefaultLanguage = %v, want auto", cfg.DefaultLanguage())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	data := `
server_url: https://meetings.example.com
timeout: 30s
progress_interval: 250ms
language: ka
log_level: debug
debug: true
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://meetings.example.com" {
		t.Errorf("ServerURL = %v", cfg.ServerURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.ProgressInterval != 250*time.Millisecond {
		t.Errorf("ProgressInterval = %v, want 250ms", cfg.ProgressInterval)
	}
	if cfg.DefaultLanguage() != "ka" {
		t.Errorf("DefaultLanguage = %v, want ka", cfg.DefaultLanguage())
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	os.WriteFile(path, []byte("server_url: http://file:5050\ntimeout: 1m\n"), 0o600)

	t.Setenv("MINUTES_SERVER_URL", "http://env:5050")
	t.Setenv("MINUTES_SESSION", "pinned")
	t.Setenv("MINUTES_DEBUG", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://env:5050" {
		t.Errorf("ServerURL = %v, want env value", cfg.ServerURL)
	}
	if cfg.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want 1m from file", cfg.Timeout)
	}
	if cfg.Session != "pinned" {
		t.Errorf("Session = %v, want pinned", cfg.Session)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("timeout: forever\n"), 0o600)
	if _, err := Load(bad); err == nil {
		t.Error("expected error for unparseable timeout")
	}

	t.Setenv("MINUTES_TIMEOUT", "soon")
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for bad MINUTES_TIMEOUT")
	}
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no scheme", func(c *Config) { c.ServerURL = "localhost:5050" }, true},
		{"ftp", func(c *Config) { c.ServerURL = "ftp://host" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"zero interval", func(c *Config) { c.ProgressInterval = 0 }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad language", func(c *Config) { c.Language = "klingon" }, true},
		{"language name", func(c *Config) { c.Language = "Georgian" }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
