package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"devscanner/internal/domain"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// firstText evaluates an ordered selector chain and returns the first
// non-empty trimmed text.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		text := cleanText(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// collectText evaluates an ordered selector chain; the first selector that
// matches anything contributes the joined text of all its matches.
func collectText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		var parts []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := cleanText(sel.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return ""
}

// parseDateChain tries each date selector in order, reading a datetime
// attribute before falling back to element text, and parses the first hit
// against the site's layouts. An unreadable date resolves to now with
// assumed confidence so extraction never fails on dates.
func parseDateChain(doc *goquery.Document, selectors, layouts []string, now func() time.Time) (time.Time, domain.DateConfidence) {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		candidates := make([]string, 0, 2)
		if attr, ok := sel.Attr("datetime"); ok {
			candidates = append(candidates, strings.TrimSpace(attr))
		}
		candidates = append(candidates, cleanText(sel.Text()))

		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if parsed, ok := parseDate(candidate, layouts); ok {
				return parsed, domain.DateConfidenceParsed
			}
		}
	}

	return now(), domain.DateConfidenceAssumed
}

func parseDate(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}
