package sites

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"khobor"
)

// DailyStarSource scrapes The Daily Star, a server-rendered site: stories
// are plain HTML cards on the listing page rather than embedded JSON.
type DailyStarSource struct {
	SourceName  string
	BaseURL     string
	ListingPath string
	Subdir      string
}

// DailyStar returns the adapter for The Daily Star education tag page.
func DailyStar() khobor.Source {
	return DailyStarSource{
		SourceName:  "The Daily Star - Education",
		BaseURL:     "https://www.thedailystar.net",
		ListingPath: "/tags/education",
		Subdir:      "daily_star",
	}
}

func (d DailyStarSource) Name() string        { return d.SourceName }
func (d DailyStarSource) ListingURL() string  { return d.BaseURL + d.ListingPath }
func (d DailyStarSource) MediaSubdir() string { return d.Subdir }

// ExtractStories reads the listing page's story cards. A card needs a
// linked title to count; hero image and timestamp are optional. The slug
// comes from the story URL since the markup exposes none.
func (d DailyStarSource) ExtractStories(page []byte) ([]khobor.Story, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var stories []khobor.Story
	doc.Find("div.card").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h3.title a").First()
		headline := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if headline == "" || !ok {
			return
		}

		storyURL := resolveURL(d.BaseURL, href)
		slug := khobor.SlugFromURL(storyURL)
		if slug == "" {
			return
		}

		stories = append(stories, khobor.Story{
			Headline:     headline,
			Slug:         slug,
			URL:          storyURL,
			PublishedAt:  card.Find("time").First().AttrOr("datetime", ""),
			HeroImageURL: card.Find("div.card-image a picture img").First().AttrOr("data-srcset", ""),
			ScrapedAt:    time.Now(),
		})
	})
	return stories, nil
}

// ExtractDetail reads a Daily Star article page. The article section is
// required; everything inside it is optional. Body paragraphs are the
// ones without a class attribute -- classed paragraphs are captions,
// related-story teasers and other furniture.
func (d DailyStarSource) ExtractDetail(page []byte, story khobor.Story) (*khobor.StoryDetail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	article := doc.Find("article.article-section").First()
	if article.Length() == 0 {
		return nil, khobor.ErrNoStoryData
	}

	detail := &khobor.StoryDetail{
		Headline:    strings.TrimSpace(article.Find("h1.article-title").First().Text()),
		PublishedAt: article.Find("time").First().AttrOr("datetime", ""),
	}

	article.Find("div.section-media span.lg-gallery").Each(func(_ int, gallery *goquery.Selection) {
		if src := gallery.Find("picture img").First().AttrOr("data-srcset", ""); src != "" {
			detail.ImageURLs = append(detail.ImageURLs, src)
		}
	})

	var paragraphs []string
	article.Find("div.clearfix").First().Find("p").Each(func(_ int, p *goquery.Selection) {
		if _, classed := p.Attr("class"); classed {
			return
		}
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	detail.Description = strings.Join(paragraphs, "\n\n")

	return detail, nil
}

// resolveURL resolves href against base the way a browser would, passing
// absolute URLs through untouched.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
