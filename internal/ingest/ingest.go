// Package ingest maps processed articles to persisted development records.
// Persistence failures for single articles are accumulated, never fatal:
// the pipeline's contract is a smaller result set plus diagnostics.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"devscanner/internal/domain"
	"devscanner/internal/ports"
)

// Result is the per-area outcome of one ingestion pass.
type Result struct {
	Created []domain.Development
	Skipped int
	Errors  []string
}

// Ingestor persists processed articles as developments, skipping any
// (area, url) pair that already exists.
type Ingestor struct {
	store  ports.DevelopmentStore
	scorer ports.ImpactScorer
	logger *slog.Logger
}

// New wires the storage collaborator and an optional impact scorer.
func New(store ports.DevelopmentStore, scorer ports.ImpactScorer, logger *slog.Logger) *Ingestor {
	return &Ingestor{store: store, scorer: scorer, logger: logger}
}

// IngestArticles runs the find-or-create loop for one area. Every article is
// handled independently: lookup or create failures are recorded as strings
// and the loop moves on.
func (i *Ingestor) IngestArticles(ctx context.Context, articles []domain.ProcessedArticle, areaID string) Result {
	var result Result

	for _, article := range articles {
		existing, err := i.store.FindDevelopmentByAreaAndURL(ctx, areaID, article.URL)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("lookup %s: %v", article.URL, err))
			continue
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		dev := i.developmentFromArticle(ctx, article, areaID)

		created, err := i.store.CreateDevelopment(ctx, dev)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("create development for %s: %v", article.URL, err))
			continue
		}
		result.Created = append(result.Created, created)
	}

	return result
}

func (i *Ingestor) developmentFromArticle(ctx context.Context, article domain.ProcessedArticle, areaID string) domain.Development {
	dev := domain.Development{
		ID:            uuid.NewString(),
		AreaID:        areaID,
		Type:          article.Type,
		Title:         article.Title,
		Description:   article.Description,
		ImpactScore:   article.ImpactScore,
		DateAnnounced: article.PublishDate,
		Source: domain.SourceRef{
			URL:         article.URL,
			Publisher:   article.Source,
			PublishDate: article.PublishDate,
		},
	}

	if i.scorer != nil {
		score, err := i.scorer.ScoreDevelopment(ctx, article)
		if err != nil {
			i.debug("remote scoring failed, keeping heuristic score", "url", article.URL, "error", err)
		} else {
			dev.ImpactScore = score
		}
	}

	return dev
}

func (i *Ingestor) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}
