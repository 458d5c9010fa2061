package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: write a config file into a temp dir and return its path
func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "khobor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// TestDefault_Values verifies the out-of-the-box configuration
func TestDefault_Values(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 2, cfg.DelaySeconds)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, filepath.Join("data", "history.db"), cfg.HistoryDB)
	assert.Zero(t, cfg.MaxStories, "no story limit unless asked for")
	assert.Empty(t, cfg.Feeds)
}

// TestLoad_MissingFile verifies running without a config file is fine
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))

	require.NoError(t, err, "a missing file is not an error")
	assert.Nil(t, cfg, "nil signals the caller to use defaults")
}

// TestLoad_PartialFileKeepsDefaults verifies unset fields keep their
// default values
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "delay_seconds: 5\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 5, cfg.DelaySeconds)
	assert.Equal(t, "data", cfg.DataDir, "unset fields stay at their defaults")
	assert.Equal(t, 30, cfg.TimeoutSeconds)
}

// TestLoad_FullFile verifies every field parses, including feed sources
func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/khobor
delay_seconds: 3
timeout_seconds: 60
user_agent: khobor-bot/1.0
max_stories: 25
history_db: /var/lib/khobor/history.db
feeds:
  - name: campus_feed
    url: https://campus.example.com/rss.xml
    subdir: campus
    selectors:
      title: h1.post-title
      body: div.post-content p
      images: div.post-content img
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/var/lib/khobor", cfg.DataDir)
	assert.Equal(t, 3, cfg.DelaySeconds)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, "khobor-bot/1.0", cfg.UserAgent)
	assert.Equal(t, 25, cfg.MaxStories)
	assert.Equal(t, "/var/lib/khobor/history.db", cfg.HistoryDB)

	require.Len(t, cfg.Feeds, 1)
	feed := cfg.Feeds[0]
	assert.Equal(t, "campus_feed", feed.Name)
	assert.Equal(t, "https://campus.example.com/rss.xml", feed.URL)
	assert.Equal(t, "campus", feed.Subdir)
	assert.Equal(t, "h1.post-title", feed.Selectors.Title)
	assert.Equal(t, "div.post-content p", feed.Selectors.Body)
	assert.Equal(t, "div.post-content img", feed.Selectors.Images)
}

// TestLoad_MalformedYAML verifies parse failures are reported
func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "data_dir: [unclosed\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

// TestLoad_InvalidValues verifies validation runs on loaded files
func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "delay_seconds: -1\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay_seconds")
}

// TestValidate_RejectsBadValues verifies each field's constraint
func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	assert.ErrorContains(t, cfg.Validate(), "data_dir")

	cfg = Default()
	cfg.TimeoutSeconds = 0
	assert.ErrorContains(t, cfg.Validate(), "timeout_seconds")

	cfg = Default()
	cfg.MaxStories = -5
	assert.ErrorContains(t, cfg.Validate(), "max_stories")
}

// TestValidate_FeedRequirements verifies feeds need a name, a URL and a
// body selector
func TestValidate_FeedRequirements(t *testing.T) {
	cfg := Default()
	cfg.Feeds = []FeedConfig{{URL: "https://x/feed.xml"}}
	assert.ErrorContains(t, cfg.Validate(), "name is required")

	cfg.Feeds = []FeedConfig{{Name: "x"}}
	assert.ErrorContains(t, cfg.Validate(), "url is required")

	cfg.Feeds = []FeedConfig{{Name: "x", URL: "https://x/feed.xml"}}
	assert.ErrorContains(t, cfg.Validate(), "selectors.body is required")
}

// TestDurationAccessors verifies the second counts convert to durations
func TestDurationAccessors(t *testing.T) {
	cfg := &Config{DelaySeconds: 3, TimeoutSeconds: 45}

	assert.Equal(t, 3*time.Second, cfg.Delay())
	assert.Equal(t, 45*time.Second, cfg.Timeout())
}
