// Package config loads kernel settings from ~/.sentinel/config.yaml with
// environment-variable overrides. Settings are read once at startup and
// treated as immutable afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".sentinel"
	DefaultConfigFile = "config.yaml"
	DefaultLogFile    = "audit.jsonl"
)

// Environment overrides. Each one, when set, wins over the YAML value.
const (
	EnvAuthorizedID = "SENTINEL_AUTHORIZED_ID"
	EnvSandboxRoot  = "SENTINEL_SANDBOX_ROOT"
	EnvLogPath      = "SENTINEL_LOG_PATH"
)

type Config struct {
	// AuthorizedID is the single operator identity. Zero means unset.
	AuthorizedID int64 `yaml:"authorized_id"`

	// SandboxRoot bounds every path operation.
	SandboxRoot string `yaml:"sandbox_root"`

	// LogPath is the audit JSONL file.
	LogPath string `yaml:"log_path"`

	// StrictPrompts blocks flagged prompts outright instead of sanitizing.
	StrictPrompts bool `yaml:"strict_prompts"`

	// AllowedBinaries overrides the built-in command whitelist when set.
	AllowedBinaries []string `yaml:"allowed_binaries"`

	CommandTimeout time.Duration `yaml:"command_timeout"`
	AgentTimeout   time.Duration `yaml:"agent_timeout"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Window      time.Duration `yaml:"window"`
	Lockout     time.Duration `yaml:"lockout"`
}

// Default returns the built-in settings: strict prompt scanning, the
// stock whitelist, 120s/600s timeouts and a 5-failure lockout.
func Default() *Config {
	return &Config{
		StrictPrompts:  true,
		CommandTimeout: 120 * time.Second,
		AgentTimeout:   600 * time.Second,
		RateLimit: RateLimitConfig{
			MaxAttempts: 5,
			Window:      60 * time.Second,
			Lockout:     300 * time.Second,
		},
	}
}

// Dir returns the config directory, creating it on first use.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads path (or the default location when path is empty), applies
// environment overrides, and fills in defaults. A missing file is fine;
// missing identity or sandbox root is not, since the kernel must refuse to
// start wide open.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, DefaultConfigFile)
		cfg.LogPath = filepath.Join(dir, DefaultLogFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.LogPath == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.LogPath = filepath.Join(dir, DefaultLogFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAuthorizedID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAuthorizedID, err)
		}
		c.AuthorizedID = id
	}
	if v := os.Getenv(EnvSandboxRoot); v != "" {
		c.SandboxRoot = v
	}
	if v := os.Getenv(EnvLogPath); v != "" {
		c.LogPath = v
	}
	return nil
}

// Validate refuses configurations that would leave the kernel unguarded.
func (c *Config) Validate() error {
	if c.AuthorizedID == 0 {
		return errors.New("config: authorized_id is not set")
	}
	if c.SandboxRoot == "" {
		return errors.New("config: sandbox_root is not set")
	}
	if !filepath.IsAbs(c.SandboxRoot) {
		return fmt.Errorf("config: sandbox_root %q must be absolute", c.SandboxRoot)
	}
	return nil
}
