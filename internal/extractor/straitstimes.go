package extractor

import (
	"log/slog"
	"net/url"

	"devscanner/internal/fetch"
)

// NewStraitsTimes builds the Straits Times extractor. The site serves
// general Singapore news, so MRT and condo launches are queried in addition
// to the base topics, and multimedia sections are filtered out.
func NewStraitsTimes(fetcher *fetch.Fetcher, logger *slog.Logger) *SiteExtractor {
	p := profile{
		name: "straitstimes",
		extraTopics: []string{
			"%s MRT station",
			"%s condo launch",
		},
		searchPath: func(query string) string {
			return "/search?searchkey=" + url.QueryEscape(query)
		},
		linkSelectors: []string{
			".queryly_item_row a.queryly_item_title",
			".card-text a",
			"article h5 a",
		},
		maxPerQuery: 10,
		allowSegments: []string{
			"/singapore",
			"/business",
			"/asia",
		},
		denySegments: []string{
			"/multimedia",
			"/videos",
			"/podcasts",
			"/interactive",
		},
		titleSelectors: []string{
			"h1.headline",
			"h1[itemprop=\"headline\"]",
			"h1",
		},
		contentSelectors: []string{
			"div.article-content-rawhtml p",
			"div[itemprop=\"articleBody\"] p",
			"article p",
		},
		dateSelectors: []string{
			"time[itemprop=\"datePublished\"]",
			".story-postdate",
			"time",
		},
		dateLayouts: []string{
			"2006-01-02T15:04:05Z07:00",
			"2006-01-02",
			"Jan 2, 2006",
			"2 Jan 2006",
		},
	}
	return newSiteExtractor(p, fetcher, logger)
}
