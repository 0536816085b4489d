package extractor

import (
	"log/slog"
	"net/url"

	"devscanner/internal/fetch"
)

// NewPropertyGuru builds the PropertyGuru news extractor. The portal mixes
// news with listings and calculators, so the deny list is the main guard.
func NewPropertyGuru(fetcher *fetch.Fetcher, logger *slog.Logger) *SiteExtractor {
	p := profile{
		name: "propertyguru",
		extraTopics: []string{
			"%s shopping mall",
			"%s BTO launch",
		},
		searchPath: func(query string) string {
			return "/property-guides/search?q=" + url.QueryEscape(query)
		},
		linkSelectors: []string{
			".guides-listing a.guide-card-link",
			".search-item h3 a",
			"article h2 a",
		},
		maxPerQuery: 8,
		allowSegments: []string{
			"/property-guides",
			"/property-management-news",
		},
		denySegments: []string{
			"/listing",
			"/mortgage-calculator",
			"/condo-directory",
			"/agent",
		},
		titleSelectors: []string{
			"h1.entry-title",
			".guide-header h1",
			"h1",
		},
		contentSelectors: []string{
			"div.entry-content p",
			".guide-body p",
			"article p",
		},
		dateSelectors: []string{
			"time.entry-date",
			".post-meta time",
			"time",
		},
		dateLayouts: []string{
			"2006-01-02T15:04:05Z07:00",
			"January 2, 2006",
			"2 January 2006",
			"2006-01-02",
		},
	}
	return newSiteExtractor(p, fetcher, logger)
}
