// Package extractor implements the per-site article extractors. Each site
// contributes a declarative profile (topics, link discovery, URL rules,
// selector chains); the shared engine drives search, candidate fetching and
// parsing through the composed fetch primitive.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"devscanner/internal/domain"
	"devscanner/internal/fetch"
	"devscanner/internal/ports"
)

// Topics every site is queried with; profiles append their own.
var baseTopics = []string{
	"%s development",
	"%s school",
	"%s infrastructure",
}

// profile captures everything site-specific: how to build a search URL, how
// to find result links, which URLs count as articles, and the ordered
// selector chains for the article fields.
type profile struct {
	name             string
	extraTopics      []string
	searchPath       func(query string) string
	linkSelectors    []string
	maxPerQuery      int
	allowSegments    []string
	denySegments     []string
	titleSelectors   []string
	contentSelectors []string
	dateSelectors    []string
	dateLayouts      []string
}

// SiteExtractor runs one profile over its own Fetcher. Implements
// ports.Extractor.
type SiteExtractor struct {
	profile profile
	fetcher *fetch.Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.Extractor = (*SiteExtractor)(nil)

func newSiteExtractor(p profile, fetcher *fetch.Fetcher, logger *slog.Logger) *SiteExtractor {
	if p.maxPerQuery <= 0 {
		p.maxPerQuery = 8
	}
	return &SiteExtractor{profile: p, fetcher: fetcher, logger: logger, now: time.Now}
}

// Name identifies the extractor inside the registry.
func (e *SiteExtractor) Name() string {
	return e.profile.name
}

// SearchArticles runs every topic query in declared order, fetches up to the
// per-query cap of admissible candidate links, parses them, and returns the
// union deduplicated by URL. Articles published before fromDate are
// discarded; the boundary itself is accepted. A failing query or candidate
// is logged and skipped, so the call degrades instead of failing.
func (e *SiteExtractor) SearchArticles(ctx context.Context, areaName string, fromDate time.Time) ([]domain.ArticleData, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("extractor %s has no fetcher", e.profile.name)
	}

	var results []domain.ArticleData
	visited := map[string]struct{}{}

	for _, topic := range append(append([]string{}, baseTopics...), e.profile.extraTopics...) {
		query := fmt.Sprintf(topic, areaName)

		links, err := e.discoverLinks(ctx, query)
		if err != nil {
			e.warn("search query failed", "query", query, "error", err)
			continue
		}

		fetched := 0
		for _, link := range links {
			if fetched >= e.profile.maxPerQuery {
				break
			}
			if _, seen := visited[link]; seen {
				continue
			}
			if !e.admissible(link) {
				continue
			}
			visited[link] = struct{}{}

			body, err := e.fetcher.Fetch(ctx, link)
			if err != nil {
				e.warn("candidate fetch failed", "url", link, "error", err)
				continue
			}
			fetched++

			article := e.ExtractArticleData(body, link)
			if article == nil {
				continue
			}
			if article.PublishDate.Before(fromDate) {
				continue
			}
			results = append(results, *article)
		}
	}

	return results, nil
}

// ExtractArticleData parses a fetched document through the profile's
// selector chains. Missing title or content means the page is not an
// article, signaled with nil rather than an error. A missing or
// unparseable date falls back to now with assumed confidence.
func (e *SiteExtractor) ExtractArticleData(body []byte, pageURL string) *domain.ArticleData {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	title := firstText(doc, e.profile.titleSelectors)
	content := collectText(doc, e.profile.contentSelectors)
	if title == "" || content == "" {
		return nil
	}

	publishDate, confidence := parseDateChain(doc, e.profile.dateSelectors, e.profile.dateLayouts, e.now)

	return &domain.ArticleData{
		Title:          title,
		Content:        content,
		URL:            pageURL,
		PublishDate:    publishDate,
		Source:         e.profile.name,
		DateConfidence: confidence,
	}
}

// discoverLinks fetches one search-results page and extracts candidate
// article links in document order.
func (e *SiteExtractor) discoverLinks(ctx context.Context, query string) ([]string, error) {
	body, err := e.fetcher.Fetch(ctx, e.profile.searchPath(query))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var links []string
	seen := map[string]struct{}{}
	for _, selector := range e.profile.linkSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			if href == "" || strings.HasPrefix(href, "#") {
				return
			}
			if _, dup := seen[href]; dup {
				return
			}
			seen[href] = struct{}{}
			links = append(links, href)
		})
		if len(links) > 0 {
			break
		}
	}

	return links, nil
}

// admissible separates genuine article pages from video/photo/listing
// pages by path-segment rules.
func (e *SiteExtractor) admissible(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)

	for _, segment := range e.profile.denySegments {
		if strings.Contains(path, segment) {
			return false
		}
	}

	if len(e.profile.allowSegments) == 0 {
		return true
	}
	for _, segment := range e.profile.allowSegments {
		if strings.Contains(path, segment) {
			return true
		}
	}
	return false
}

func (e *SiteExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// Registry keeps a mapping from extractor names to their implementations.
type Registry struct {
	extractors map[string]ports.Extractor
	order      []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]ports.Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(e ports.Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]ports.Extractor{}
	}
	if _, exists := r.extractors[e.Name()]; !exists {
		r.order = append(r.order, e.Name())
	}
	r.extractors[e.Name()] = e
}

// Resolve returns an extractor by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Extractor, error) {
	if e, ok := r.extractors[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("extractor %s is not registered", name)
}

// All returns every registered extractor in registration order.
func (r *Registry) All() []ports.Extractor {
	all := make([]ports.Extractor, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.extractors[name])
	}
	return all
}
