package ports

import (
	"context"
	"time"

	"devscanner/internal/domain"
)

// Extractor pulls candidate development articles from one external site.
// SearchArticles degrades to fewer results on per-query failures and only
// returns an error when the extractor cannot run at all.
type Extractor interface {
	Name() string
	SearchArticles(ctx context.Context, areaName string, fromDate time.Time) ([]domain.ArticleData, error)
	ExtractArticleData(body []byte, url string) *domain.ArticleData
}

// DevelopmentStore persists developments for deduplication and history.
type DevelopmentStore interface {
	FindDevelopmentByAreaAndURL(ctx context.Context, areaID, url string) (*domain.Development, error)
	CreateDevelopment(ctx context.Context, dev domain.Development) (domain.Development, error)
	DeleteDevelopmentsOlderThan(ctx context.Context, areaID string, days int) (int, error)
	CountDevelopmentsByType(ctx context.Context, areaID string) (map[domain.DevelopmentType]int, error)
	LatestAnnouncement(ctx context.Context, areaID string) (time.Time, error)
}

// AreaDirectory resolves area identifiers to human-readable names used for
// search-query construction.
type AreaDirectory interface {
	AreaName(ctx context.Context, areaID string) (string, error)
}

// ImpactScorer asks an external model to score a development's expected
// price influence. Implementations are opaque; callers fall back to
// heuristic scores when the call fails.
type ImpactScorer interface {
	ScoreDevelopment(ctx context.Context, article domain.ProcessedArticle) (float64, error)
}

// Scheduler controls when recurring maintenance jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
