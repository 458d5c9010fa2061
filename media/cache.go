// Package media caches remote images on local disk, keyed by story slug
// and a per-story image name. Downloads are idempotent: a file already on
// disk is never re-fetched. Idempotence is not freshness -- stale content
// stays until someone deletes it.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fetcher streams the body of a URL. fetch.Client is the real
// implementation.
type Fetcher interface {
	Stream(ctx context.Context, url string) (io.ReadCloser, error)
}

// DefaultExt is used when a URL's path carries no usable extension.
const DefaultExt = ".jpg"

// maxExtLen is a dot plus four characters; anything longer is assumed to
// be a path suffix misread as an extension, not a real one.
const maxExtLen = 5

// Cache stores downloaded media under root/images. Every path it returns
// is relative to root, so a persisted record set can be moved wholesale.
type Cache struct {
	root    string
	fetcher Fetcher
}

// NewCache returns a cache rooted at root, downloading through fetcher.
func NewCache(root string, fetcher Fetcher) *Cache {
	return &Cache{root: root, fetcher: fetcher}
}

// Ensure makes sure the media at rawURL exists locally as
// images/[subdir/]slug/name+ext and returns that path relative to the
// cache root. The path is a pure function of its arguments, so a file
// already on disk is a cache hit and no request is made.
func (c *Cache) Ensure(ctx context.Context, rawURL, slug, name, subdir string) (string, error) {
	dir := filepath.Join(c.root, "images")
	if subdir != "" {
		dir = filepath.Join(dir, subdir)
	}
	dir = filepath.Join(dir, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	target := filepath.Join(dir, name+extensionOf(rawURL))
	if _, err := os.Stat(target); err == nil {
		return c.relative(target)
	}

	if err := c.download(ctx, rawURL, target); err != nil {
		return "", err
	}
	return c.relative(target)
}

func (c *Cache) relative(target string) (string, error) {
	rel, err := filepath.Rel(c.root, target)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", target, err)
	}
	return rel, nil
}

// download streams url into target through a temp file in the same
// directory, so a failed transfer never leaves a partial file behind to
// be mistaken for a cache hit later.
func (c *Cache) download(ctx context.Context, url, target string) error {
	body, err := c.fetcher.Stream(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	return nil
}

// extensionOf pulls the file extension out of a URL's path, ignoring the
// query string. Absent and implausibly long extensions fall back to
// DefaultExt; this is a heuristic on the URL, not a content-type check.
func extensionOf(rawURL string) string {
	trimmed := rawURL
	if i := strings.Index(trimmed, "?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := path.Ext(trimmed)
	if ext == "" || len(ext) > maxExtLen {
		return DefaultExt
	}
	return ext
}
