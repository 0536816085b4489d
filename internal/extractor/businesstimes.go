package extractor

import (
	"log/slog"
	"net/url"

	"devscanner/internal/fetch"
)

// NewBusinessTimes builds the Business Times extractor, biased toward
// commercial and retail openings.
func NewBusinessTimes(fetcher *fetch.Fetcher, logger *slog.Logger) *SiteExtractor {
	p := profile{
		name: "businesstimes",
		extraTopics: []string{
			"%s retail opening",
			"%s office development",
		},
		searchPath: func(query string) string {
			return "/search/" + url.PathEscape(query)
		},
		linkSelectors: []string{
			".search-results a.article-link",
			"div.media-body h4 a",
			"article h4 a",
		},
		maxPerQuery: 8,
		allowSegments: []string{
			"/property",
			"/companies-markets",
			"/singapore",
			"/real-estate",
		},
		denySegments: []string{
			"/videos",
			"/podcasts",
			"/events-awards",
		},
		titleSelectors: []string{
			"h1.article-title",
			"header h1",
			"h1",
		},
		contentSelectors: []string{
			"div.article-body p",
			"div.body-copy p",
			"article p",
		},
		dateSelectors: []string{
			"time[datetime]",
			".article-pubdate",
			"time",
		},
		dateLayouts: []string{
			"2006-01-02T15:04:05Z07:00",
			"Mon, Jan 2, 2006 - 3:04 PM",
			"Jan 2, 2006 5:04 PM",
			"2006-01-02",
		},
	}
	return newSiteExtractor(p, fetcher, logger)
}
