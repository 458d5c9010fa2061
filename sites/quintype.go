// Package sites holds the concrete source adapters the pipeline knows how
// to scrape, one per site document shape, plus the registry the CLI
// resolves them through.
package sites

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"khobor"
)

// Story element types inside a Quintype detail page's cards.
const (
	elementText  = "text"
	elementTitle = "title"
	elementImage = "image"
)

var htmlTags = regexp.MustCompile(`<[^<]+?>`)

// Quintype scrapes sites built on the Quintype CMS, which render pages
// from JSON state embedded in script tags. Each site is one value of this
// type; see ProthomAlo for the canonical instance.
type Quintype struct {
	SourceName   string
	BaseURL      string
	ListingPath  string
	MediaBaseURL string
	Subdir       string
	Rules        khobor.Rules
	Fields       khobor.FieldMap
}

func (q Quintype) Name() string        { return q.SourceName }
func (q Quintype) ListingURL() string  { return q.BaseURL + q.ListingPath }
func (q Quintype) MediaSubdir() string { return q.Subdir }

// ExtractStories decodes every application/json script tag on the listing
// page and walks each payload for story leaves. Tags that fail to decode
// are unrelated page state and get skipped.
func (q Quintype) ExtractStories(page []byte) ([]khobor.Story, error) {
	payloads, err := scriptPayloads(page)
	if err != nil {
		return nil, err
	}

	var stories []khobor.Story
	for _, payload := range payloads {
		data, ok := qtData(payload)
		if !ok {
			continue
		}
		for _, node := range q.Rules.FindStoryNodes(data) {
			if story, ok := khobor.StoryFromNode(node, q.Fields, q.BaseURL, q.MediaBaseURL); ok {
				stories = append(stories, story)
			}
		}
	}
	return stories, nil
}

// ExtractDetail finds the story object embedded in a detail page and
// assembles body text and image URLs from its cards.
func (q Quintype) ExtractDetail(page []byte, story khobor.Story) (*khobor.StoryDetail, error) {
	payloads, err := scriptPayloads(page)
	if err != nil {
		return nil, err
	}

	for _, payload := range payloads {
		data, ok := qtData(payload)
		if !ok {
			continue
		}
		root, ok := data.(map[string]any)
		if !ok {
			continue
		}
		node, ok := root["story"].(map[string]any)
		if !ok {
			continue
		}
		return q.detailFromNode(node), nil
	}
	return nil, khobor.ErrNoStoryData
}

// detailFromNode flattens a story node's cards into a detail record. Only
// elements carrying the plain-content sentinel count: a subtype key that
// is present but null. Pull-quotes, embeds and other decorated subtypes,
// and elements missing the key entirely, stay out of the body.
func (q Quintype) detailFromNode(node map[string]any) *khobor.StoryDetail {
	detail := &khobor.StoryDetail{
		Headline:    khobor.StringField(node, q.Fields.Headline),
		PublishedAt: khobor.StringField(node, q.Fields.Published),
	}

	var fragments []string
	cards, _ := node["cards"].([]any)
	for _, c := range cards {
		card, ok := c.(map[string]any)
		if !ok {
			continue
		}
		elements, _ := card["story-elements"].([]any)
		for _, e := range elements {
			element, ok := e.(map[string]any)
			if !ok || !plainElement(element) {
				continue
			}
			switch khobor.StringField(element, "type") {
			case elementText, elementTitle:
				if text := khobor.StringField(element, "text"); text != "" {
					fragments = append(fragments, htmlTags.ReplaceAllString(text, ""))
				}
			case elementImage:
				if key := khobor.StringField(element, "image-s3-key"); key != "" {
					detail.ImageURLs = append(detail.ImageURLs, q.MediaBaseURL+key)
				}
			}
		}
	}
	detail.Description = strings.TrimSpace(strings.Join(fragments, "\n\n"))
	return detail
}

// plainElement reports whether a story element carries the plain-content
// sentinel: its subtype key present with a null value.
func plainElement(element map[string]any) bool {
	subtype, ok := element["subtype"]
	return ok && subtype == nil
}

// qtData digs the qt.data envelope out of one decoded script payload.
func qtData(payload any) (any, bool) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	qt, ok := root["qt"].(map[string]any)
	if !ok {
		return nil, false
	}
	data, ok := qt["data"]
	return data, ok
}

// scriptPayloads returns the decoded JSON value of every
// script[type="application/json"] tag on the page, skipping tags whose
// contents do not decode.
func scriptPayloads(page []byte) ([]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var payloads []any
	doc.Find(`script[type="application/json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}
		payloads = append(payloads, payload)
	})
	return payloads, nil
}
