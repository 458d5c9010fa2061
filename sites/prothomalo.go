package sites

import "khobor"

// ProthomAlo returns the adapter for the Prothom Alo education section, a
// Bengali-language Quintype site. Stories live in the qt.data payload as
// {type: "story", story: {...}} nodes nested inside collections.
func ProthomAlo() khobor.Source {
	return Quintype{
		SourceName:   "Prothom Alo Education",
		BaseURL:      "https://www.prothomalo.com",
		ListingPath:  "/education",
		MediaBaseURL: "https://media.prothomalo.com/",
		Rules: khobor.Rules{
			TypeKey:        "type",
			CollectionType: "collection",
			ItemsKey:       "items",
			StoryType:      "story",
			StoryKey:       "story",
		},
		Fields: khobor.FieldMap{
			Headline:  "headline",
			Slug:      "slug",
			Published: "last-published-at",
			HeroImage: "hero-image-s3-key",
		},
	}
}
