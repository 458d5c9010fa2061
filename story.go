package khobor

import (
	"strings"
	"time"
)

// Story is one news story. Discovery fills the identity fields from a
// listing page; a detail scrape later adds body text and locally cached
// media via MergeDetail. The slug is the story's identity: no Story is
// ever constructed without one.
type Story struct {
	Headline       string    `json:"headline"`
	Slug           string    `json:"slug"`
	URL            string    `json:"url"`
	PublishedAt    string    `json:"last_published_at,omitempty"`
	HeroImageURL   string    `json:"hero_image_url,omitempty"`
	ScrapedAt      time.Time `json:"scraped_at"`
	Description    string    `json:"description,omitempty"`
	ImageURLs      []string  `json:"image_urls,omitempty"`
	LocalImages    []string  `json:"local_images,omitempty"`
	HeroImageLocal string    `json:"hero_image_local,omitempty"`
}

// StoryDetail holds what a detail page adds on top of a discovered story.
// It carries no hero image URL of its own; the discovery record's value
// survives the merge.
type StoryDetail struct {
	Headline       string
	PublishedAt    string
	Description    string
	ImageURLs      []string
	LocalImages    []string
	HeroImageLocal string
}

// MergeDetail returns a new Story combining s with a detail record. Detail
// values win on overlap, but only when non-empty: a detail page with a
// blank headline does not erase the discovered one. The receiver is left
// untouched.
func (s Story) MergeDetail(d StoryDetail) Story {
	merged := s
	if d.Headline != "" {
		merged.Headline = d.Headline
	}
	if d.PublishedAt != "" {
		merged.PublishedAt = d.PublishedAt
	}
	merged.Description = d.Description
	merged.ImageURLs = d.ImageURLs
	merged.LocalImages = d.LocalImages
	merged.HeroImageLocal = d.HeroImageLocal
	return merged
}

// DedupeStories drops stories whose slug was already seen, preserving
// first-occurrence order. Later duplicates are dropped whole; their fields
// are not merged into the survivor.
func DedupeStories(stories []Story) []Story {
	seen := make(map[string]struct{}, len(stories))
	unique := make([]Story, 0, len(stories))
	for _, story := range stories {
		if _, ok := seen[story.Slug]; ok {
			continue
		}
		seen[story.Slug] = struct{}{}
		unique = append(unique, story)
	}
	return unique
}

// SlugFromURL derives a slug from the last path segment of a URL, with any
// query string stripped. Sites that do not expose a slug field get their
// identity from the URL this way.
func SlugFromURL(rawURL string) string {
	slug := rawURL[strings.LastIndex(rawURL, "/")+1:]
	if i := strings.Index(slug, "?"); i >= 0 {
		slug = slug[:i]
	}
	return slug
}
