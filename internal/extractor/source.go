package extractor

import (
	"context"
	"log/slog"
	"time"

	"devscanner/internal/config"
	"devscanner/internal/domain"
	"devscanner/internal/fetch"
)

// BuildRegistry wires one extractor per configured source, each with its own
// fetch budget. Unknown extractor names are logged and skipped so a config
// typo does not take down the whole scanner.
func BuildRegistry(sources []config.SourceConfig, logger *slog.Logger) *Registry {
	registry := NewRegistry()

	for _, src := range sources {
		fetcher := fetch.New(fetch.Config{
			BaseURL:       src.BaseURL,
			Timeout:       src.Timeout(),
			RetryAttempts: src.RetryAttempts,
			RetryDelay:    src.RetryDelay(),
			RateLimit:     src.RateLimit(),
		}, componentLogger(logger, "fetch."+src.Name))

		siteLogger := componentLogger(logger, "extractor."+src.Name)

		switch src.Extractor {
		case "straitstimes":
			registry.Register(NewStraitsTimes(fetcher, siteLogger))
		case "businesstimes":
			registry.Register(NewBusinessTimes(fetcher, siteLogger))
		case "propertyguru":
			registry.Register(NewPropertyGuru(fetcher, siteLogger))
		default:
			if logger != nil {
				logger.Warn("unknown extractor in config", "source", src.Name, "extractor", src.Extractor)
			}
		}
	}

	return registry
}

// Source aggregates article collection across every registered extractor.
type Source struct {
	registry *Registry
	logger   *slog.Logger
}

// NewSource wires the extractor registry into a single collection entry point.
func NewSource(registry *Registry, logger *slog.Logger) *Source {
	return &Source{registry: registry, logger: logger}
}

// CollectArticles runs every extractor sequentially for one area and returns
// the combined haul. A failing extractor contributes nothing; the others
// still run.
func (s *Source) CollectArticles(ctx context.Context, areaName string, fromDate time.Time) []domain.ArticleData {
	var aggregated []domain.ArticleData

	for _, ex := range s.registry.All() {
		s.debug("collect from source", "source", ex.Name(), "area", areaName)

		articles, err := ex.SearchArticles(ctx, areaName, fromDate)
		if err != nil {
			s.warn("extractor failed", "source", ex.Name(), "error", err)
			continue
		}

		s.debug("source produced articles", "source", ex.Name(), "count", len(articles))
		aggregated = append(aggregated, articles...)
	}

	return aggregated
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With("component", component)
}
