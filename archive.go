package khobor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Archive is the persisted unit of one scrape run: every merged story
// plus enough metadata to identify where and when they came from.
type Archive struct {
	Source     string    `json:"source"`
	ScrapedAt  time.Time `json:"scraped_at"`
	StoryCount int       `json:"story_count"`
	Stories    []Story   `json:"stories"`
}

// NewArchive stamps a fresh archive for the given source.
func NewArchive(source string, stories []Story) *Archive {
	return &Archive{
		Source:     source,
		ScrapedAt:  time.Now(),
		StoryCount: len(stories),
		Stories:    stories,
	}
}

var (
	unsafeNameChars = regexp.MustCompile(`[^\w\s-]`)
	nameSeparators  = regexp.MustCompile(`[-\s]+`)
)

// Filename derives the archive's filename from its source name and scrape
// time, e.g. "prothom_alo_education_20250115_103000.json".
func (a *Archive) Filename() string {
	name := unsafeNameChars.ReplaceAllString(strings.ToLower(a.Source), "")
	name = nameSeparators.ReplaceAllString(name, "_")
	return fmt.Sprintf("%s_%s.json", name, a.ScrapedAt.Format("20060102_150405"))
}

// Save writes the archive under dir, creating the directory if needed,
// and returns the path written. HTML escaping is off so the Bengali
// headlines and media URLs stay readable in the file.
func (a *Archive) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return "", fmt.Errorf("failed to marshal archive: %w", err)
	}

	path := filepath.Join(dir, a.Filename())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	return path, nil
}

// LoadArchive reads back an archive written by Save.
func LoadArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse archive %s: %w", path, err)
	}
	return &a, nil
}
