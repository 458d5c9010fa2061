package khobor

import (
	"context"
	"errors"
)

// ErrNoStoryData reports a detail page without the expected story
// structure: the embedded payload or article section is absent. The
// orchestrator skips the record and moves on.
var ErrNoStoryData = errors.New("no story data found in page")

// Fetcher retrieves the raw bytes of a page. fetch.Client is the real
// implementation; tests substitute their own.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// MediaStore caches remote media on local disk and returns the local
// path. media.Cache is the real implementation.
type MediaStore interface {
	Ensure(ctx context.Context, rawURL, slug, name, subdir string) (string, error)
}

// Source adapts one site's document shape to the pipeline: where the
// listing lives, how stories are recognized on it, and how a detail page
// breaks down into body text and image URLs. Adapters are plain values
// holding per-site keys and URLs; all orchestration stays in Scraper.
type Source interface {
	// Name identifies the source in archives, logs and run history.
	Name() string

	// ListingURL is the page stories are discovered on.
	ListingURL() string

	// MediaSubdir optionally namespaces the source's cached images under
	// the media root. Empty means no extra directory level.
	MediaSubdir() string

	// ExtractStories pulls discovery records out of a listing page.
	// Candidates missing required fields are dropped, not reported, so a
	// page full of unrelated markup yields an empty slice and no error.
	ExtractStories(page []byte) ([]Story, error)

	// ExtractDetail pulls body text and image URLs out of one story's
	// detail page. It returns ErrNoStoryData when the page lacks the
	// expected structure.
	ExtractDetail(page []byte, story Story) (*StoryDetail, error)
}
