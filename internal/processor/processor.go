// Package processor is the pure, stateless content-processing stage:
// relevance filtering, URL deduplication, recency windowing, and
// classification into development records. No I/O happens here.
package processor

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"devscanner/internal/domain"
)

const (
	minImpactScore = 1.0
	maxImpactScore = 10.0
	descriptionMax = 280
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// typeKeywords drives both relevance filtering and classification. Order
// matters for ties: earlier categories win.
var typeKeywords = []struct {
	devType  domain.DevelopmentType
	keywords []string
}{
	{domain.TypeSchool, []string{
		"school", "education", "campus", "kindergarten", "moe",
		"junior college", "polytechnic", "university", "student",
	}},
	{domain.TypeInfrastructure, []string{
		"mrt", "lrt", "train station", "interchange", "expressway",
		"road", "transport", "infrastructure", "cycling path",
		"park connector", "viaduct", "tunnel",
	}},
	{domain.TypeShopping, []string{
		"mall", "shopping", "retail", "supermarket", "hawker",
		"outlet", "storefront", "anchor tenant",
	}},
	{domain.TypeBusiness, []string{
		"office", "business", "headquarters", "company", "factory",
		"industrial", "business park", "hub", "startup",
	}},
}

// FilterDevelopmentContent keeps only articles whose title or content hits
// at least one development keyword.
func FilterDevelopmentContent(articles []domain.ArticleData) []domain.ArticleData {
	filtered := make([]domain.ArticleData, 0, len(articles))
	for _, article := range articles {
		if countAllKeywords(article) > 0 {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

// DeduplicateArticles removes later occurrences of the same normalized URL.
// The result is a stable subsequence of the input.
func DeduplicateArticles(articles []domain.ArticleData) []domain.ArticleData {
	seen := map[string]struct{}{}
	deduped := make([]domain.ArticleData, 0, len(articles))
	for _, article := range articles {
		key := NormalizeURL(article.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, article)
	}
	return deduped
}

// FilterByDateRange keeps articles published on or after since.
func FilterByDateRange(articles []domain.ArticleData, since time.Time) []domain.ArticleData {
	kept := make([]domain.ArticleData, 0, len(articles))
	for _, article := range articles {
		if !article.PublishDate.Before(since) {
			kept = append(kept, article)
		}
	}
	return kept
}

// ProcessArticles classifies every article and derives its impact score and
// normalized description. It never drops input: an article matching no
// category is still emitted as a minimum-confidence business development.
func ProcessArticles(articles []domain.ArticleData) []domain.ProcessedArticle {
	processed := make([]domain.ProcessedArticle, 0, len(articles))
	for _, article := range articles {
		devType, hits := classify(article)
		processed = append(processed, domain.ProcessedArticle{
			ArticleData: article,
			Type:        devType,
			ImpactScore: impactScore(article, hits),
			Description: describe(article),
		})
	}
	return processed
}

// NormalizeURL canonicalizes a URL for deduplication: lowercased scheme and
// host, fragment and trailing slash stripped.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	parsed.Fragment = ""
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String()
}

// classify picks the category with the most keyword hits; title hits count
// double. Zero hits means unclassifiable.
func classify(article domain.ArticleData) (domain.DevelopmentType, int) {
	title := strings.ToLower(article.Title)
	content := strings.ToLower(article.Content)

	best := domain.TypeBusiness
	bestHits := 0
	for _, entry := range typeKeywords {
		hits := 0
		for _, keyword := range entry.keywords {
			hits += 2 * strings.Count(title, keyword)
			hits += strings.Count(content, keyword)
		}
		if hits > bestHits {
			best = entry.devType
			bestHits = hits
		}
	}
	return best, bestHits
}

// impactScore combines keyword density with recency. Articles whose publish
// date was assumed rather than parsed get half the recency credit, so stale
// pages without dates cannot look hot.
func impactScore(article domain.ArticleData, hits int) float64 {
	if hits == 0 {
		return minImpactScore
	}

	score := 2.0 + 0.5*float64(hits)
	if score > 6.0 {
		score = 6.0
	}

	age := time.Since(article.PublishDate)
	if age < 0 {
		age = 0
	}
	recency := 2.0 * (1.0 - age.Hours()/(365*24))
	if recency < 0 {
		recency = 0
	}
	if article.DateConfidence == domain.DateConfidenceAssumed {
		recency /= 2
	}
	score += recency

	if score < minImpactScore {
		score = minImpactScore
	}
	if score > maxImpactScore {
		score = maxImpactScore
	}
	return score
}

func describe(article domain.ArticleData) string {
	content := whitespaceExpr.ReplaceAllString(strings.TrimSpace(article.Content), " ")
	if len(content) > descriptionMax {
		cut := strings.LastIndex(content[:descriptionMax], " ")
		if cut <= 0 {
			cut = descriptionMax
		}
		content = content[:cut] + "…"
	}
	return content
}

func countAllKeywords(article domain.ArticleData) int {
	text := strings.ToLower(article.Title + " " + article.Content)
	total := 0
	for _, entry := range typeKeywords {
		for _, keyword := range entry.keywords {
			total += strings.Count(text, keyword)
		}
	}
	return total
}
