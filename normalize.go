package khobor

import (
	"strconv"
	"time"
)

// FieldMap names the keys a site uses inside a story leaf for the fields
// the pipeline cares about. Headline and Slug are required; the rest may
// be left empty for sites that do not serve them.
type FieldMap struct {
	Headline  string
	Slug      string
	Published string
	HeroImage string
}

// StoryFromNode converts one story leaf into a Story. It returns ok=false
// when the node lacks a non-empty headline or slug; such candidates carry
// nothing worth keeping and the caller drops them. The story URL is the
// site base plus the slug, and the hero image URL is only set when the
// node carries the hero key.
func StoryFromNode(node map[string]any, fields FieldMap, baseURL, mediaBaseURL string) (Story, bool) {
	headline := StringField(node, fields.Headline)
	slug := StringField(node, fields.Slug)
	if headline == "" || slug == "" {
		return Story{}, false
	}

	story := Story{
		Headline:    headline,
		Slug:        slug,
		URL:         baseURL + "/" + slug,
		PublishedAt: StringField(node, fields.Published),
		ScrapedAt:   time.Now(),
	}
	if key := StringField(node, fields.HeroImage); key != "" {
		story.HeroImageURL = mediaBaseURL + key
	}
	return story, true
}

// StringField reads a field the sites serve inconsistently as either a
// string or a number (epoch-millis timestamps, mostly) and returns its
// string form. Missing fields and other types read as empty.
func StringField(node map[string]any, key string) string {
	switch v := node[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
