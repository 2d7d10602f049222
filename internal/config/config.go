// Package config loads minutes configuration from YAML and environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultServerURL        = assistant.DefaultBaseURL
	DefaultTimeout          = 10 * time.Minute
	DefaultProgressInterval = 400 * time.Millisecond
	DefaultLogLevel         = "info"
	DefaultConfigDir        = ".minutes"
	DefaultConfigFile       = "config.yaml"
	DefaultLogFile          = "minutes.log"
)

// Config holds the client configuration.
type Config struct {
	// ServerURL is the base URL of the meeting-assistant service.
	ServerURL string `yaml:"server_url"`

	// Timeout bounds each request. Transcription of long recordings is slow,
	// so the default is generous.
	Timeout time.Duration `yaml:"timeout"`

	// ProgressInterval is the estimated-progress tick interval.
	ProgressInterval time.Duration `yaml:"progress_interval"`

	// StateDir holds the session database and writer locks.
	StateDir string `yaml:"state_dir"`

	// Session pins the browsing session. Empty uses the current one.
	Session string `yaml:"session,omitempty"`

	// Language is the default transcription hint when no preference is stored.
	Language string `yaml:"language,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFile is where logs are written. Defaults to StateDir/minutes.log.
	LogFile string `yaml:"log_file,omitempty"`

	// Token is an API token. Prefer `minutes auth login`, which keeps it in
	// the system keyring.
	Token string `yaml:"token,omitempty"`

	// Debug also logs to stderr at debug level.
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = DefaultConfigDir
	}
	return &Config{
		ServerURL:        DefaultServerURL,
		Timeout:          DefaultTimeout,
		ProgressInterval: DefaultProgressInterval,
		StateDir:         dir,
		LogLevel:         DefaultLogLevel,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $MINUTES_CONFIG_DIR if set, otherwise ~/.minutes
func ConfigDir() (string, error) {
	if dir := os.Getenv("MINUTES_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load reads configuration in this order, later sources overriding earlier:
// defaults, the config file (path, or ConfigPath when empty), environment.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	cfg.StateDir = expandPath(cfg.StateDir)
	cfg.LogFile = expandPath(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Durations are written as strings ("30s", "10m").
	type configFile struct {
		ServerURL        string `yaml:"server_url"`
		Timeout          string `yaml:"timeout"`
		ProgressInterval string `yaml:"progress_interval"`
		StateDir         string `yaml:"state_dir"`
		Session          string `yaml:"session"`
		Language         string `yaml:"language"`
		LogLevel         string `yaml:"log_level"`
		LogFile          string `yaml:"log_file"`
		Token            string `yaml:"token"`
		Debug            bool   `yaml:"debug"`
	}

	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if f.ServerURL != "" {
		cfg.ServerURL = f.ServerURL
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if f.ProgressInterval != "" {
		d, err := time.ParseDuration(f.ProgressInterval)
		if err != nil {
			return fmt.Errorf("parsing progress_interval: %w", err)
		}
		cfg.ProgressInterval = d
	}
	if f.StateDir != "" {
		cfg.StateDir = f.StateDir
	}
	if f.Session != "" {
		cfg.Session = f.Session
	}
	if f.Language != "" {
		cfg.Language = f.Language
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.Token != "" {
		cfg.Token = f.Token
	}
	cfg.Debug = f.Debug
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("MINUTES_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("MINUTES_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing MINUTES_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("MINUTES_PROGRESS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing MINUTES_PROGRESS_INTERVAL: %w", err)
		}
		cfg.ProgressInterval = d
	}
	if v := os.Getenv("MINUTES_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("MINUTES_SESSION"); v != "" {
		cfg.Session = v
	}
	if v := os.Getenv("MINUTES_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("MINUTES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MINUTES_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("MINUTES_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("MINUTES_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress_interval must be positive")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	if c.Language != "" {
		if _, err := assistant.ParseLanguage(c.Language); err != nil {
			return fmt.Errorf("invalid language: %w", err)
		}
	}
	return nil
}

// DefaultLanguage is the configured hint, or auto-detect.
func (c *Config) DefaultLanguage() assistant.Language {
	l, err := assistant.ParseLanguage(c.Language)
	if err != nil {
		return assistant.LanguageAuto
	}
	return l
}

// LogPath returns the log file path.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.StateDir, DefaultLogFile)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
