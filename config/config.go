// Package config loads the optional YAML run configuration. Everything
// has a usable default, so running without a config file works out of the
// box; the file exists to change data locations, pacing, and to declare
// extra feed-backed sources.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"khobor/sites"
)

// Defaults applied by Default and to any field the file leaves unset.
const (
	DefaultDataDir        = "data"
	DefaultDelaySeconds   = 2
	DefaultTimeoutSeconds = 30
	DefaultHistoryDB      = "history.db"
)

// FeedConfig declares an extra RSS/Atom-backed source assembled at
// startup, keyed for the registry by Name.
type FeedConfig struct {
	Name      string              `yaml:"name"`
	URL       string              `yaml:"url"`
	Subdir    string              `yaml:"subdir"`
	Selectors sites.FeedSelectors `yaml:"selectors"`
}

// Config is the scrape run configuration. Durations are declared in
// seconds, matching the file format.
type Config struct {
	DataDir        string       `yaml:"data_dir"`
	DelaySeconds   int          `yaml:"delay_seconds"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	UserAgent      string       `yaml:"user_agent"`
	MaxStories     int          `yaml:"max_stories"`
	HistoryDB      string       `yaml:"history_db"`
	Feeds          []FeedConfig `yaml:"feeds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir:        DefaultDataDir,
		DelaySeconds:   DefaultDelaySeconds,
		TimeoutSeconds: DefaultTimeoutSeconds,
		HistoryDB:      filepath.Join(DefaultDataDir, DefaultHistoryDB),
	}
}

// Load reads the configuration at path. A missing file is not an error:
// nil is returned and the caller falls back to Default. A file that
// exists but does not parse or validate is an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("delay_seconds must not be negative")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.MaxStories < 0 {
		return fmt.Errorf("max_stories must not be negative")
	}
	for i, feed := range c.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feeds[%d]: name is required", i)
		}
		if feed.URL == "" {
			return fmt.Errorf("feeds[%d] (%s): url is required", i, feed.Name)
		}
		if feed.Selectors.Body == "" {
			return fmt.Errorf("feeds[%d] (%s): selectors.body is required", i, feed.Name)
		}
	}
	return nil
}

// Delay returns the courtesy pause between detail page fetches.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
