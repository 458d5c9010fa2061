package khobor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Scraper runs the discover-then-detail pipeline for one source. Every
// failure past construction is local to a single story: the failed story
// is logged and dropped, and the run continues.
type Scraper struct {
	source  Source
	fetcher Fetcher
	media   MediaStore
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewScraper wires a scraper from its collaborators. delay is the
// courtesy pause between detail page fetches; zero disables it, which is
// how tests run. media may be nil to skip downloads entirely. log may be
// nil for the process default.
func NewScraper(source Source, fetcher Fetcher, media MediaStore, delay time.Duration, log *slog.Logger) *Scraper {
	var limiter *rate.Limiter
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scraper{
		source:  source,
		fetcher: fetcher,
		media:   media,
		limiter: limiter,
		log:     log,
	}
}

// Discover fetches the listing page and returns the stories found on it,
// deduplicated by slug in first-encounter order.
func (s *Scraper) Discover(ctx context.Context) ([]Story, error) {
	page, err := s.fetcher.Get(ctx, s.source.ListingURL())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	stories, err := s.source.ExtractStories(page)
	if err != nil {
		return nil, fmt.Errorf("failed to extract stories: %w", err)
	}

	unique := DedupeStories(stories)
	s.log.Info("discovered stories",
		"source", s.source.Name(),
		"found", len(stories),
		"unique", len(unique))
	return unique, nil
}

// ScrapeDetails fetches the detail page for each story, extracts body
// text and media, downloads the media, and returns the merged records.
// limit bounds how many stories are processed; zero or negative means
// all. Truncation happens up front, before any fetch. Stories whose
// fetch or extraction fails are skipped and the loop continues.
func (s *Scraper) ScrapeDetails(ctx context.Context, stories []Story, limit int) []Story {
	if limit > 0 && limit < len(stories) {
		stories = stories[:limit]
	}

	detailed := make([]Story, 0, len(stories))
	for i, story := range stories {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				s.log.Warn("scrape interrupted", "err", err)
				return detailed
			}
		}
		s.log.Info("scraping story",
			"n", i+1,
			"total", len(stories),
			"slug", story.Slug)

		page, err := s.fetcher.Get(ctx, story.URL)
		if err != nil {
			s.log.Warn("skipping story, detail fetch failed", "url", story.URL, "err", err)
			continue
		}

		detail, err := s.source.ExtractDetail(page, story)
		if err != nil {
			s.log.Warn("skipping story, detail extraction failed", "url", story.URL, "err", err)
			continue
		}

		s.downloadMedia(ctx, story, detail)
		detailed = append(detailed, story.MergeDetail(*detail))
	}
	return detailed
}

// downloadMedia caches a story's body images plus its discovery hero
// image, filling the detail's local path fields. Body images are named
// image_1..n in extraction order; the hero is named "hero" and lands
// after them in LocalImages. URLs that fail to download are left out.
func (s *Scraper) downloadMedia(ctx context.Context, story Story, detail *StoryDetail) {
	if s.media == nil {
		return
	}

	for i, imageURL := range detail.ImageURLs {
		name := fmt.Sprintf("image_%d", i+1)
		local, err := s.media.Ensure(ctx, imageURL, story.Slug, name, s.source.MediaSubdir())
		if err != nil {
			s.log.Warn("image download failed", "url", imageURL, "slug", story.Slug, "err", err)
			continue
		}
		detail.LocalImages = append(detail.LocalImages, local)
	}

	if story.HeroImageURL == "" {
		return
	}
	local, err := s.media.Ensure(ctx, story.HeroImageURL, story.Slug, "hero", s.source.MediaSubdir())
	if err != nil {
		s.log.Warn("hero image download failed", "url", story.HeroImageURL, "slug", story.Slug, "err", err)
		return
	}
	detail.HeroImageLocal = local
	detail.LocalImages = append(detail.LocalImages, local)
}

// Run performs a complete scrape: discovery, then detail fetches and
// media downloads for up to limit stories.
func (s *Scraper) Run(ctx context.Context, limit int) ([]Story, error) {
	stories, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		s.log.Warn("no stories found, the site structure may have changed",
			"source", s.source.Name())
		return nil, nil
	}
	return s.ScrapeDetails(ctx, stories, limit), nil
}
