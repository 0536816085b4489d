package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"devscanner/internal/area"
	"devscanner/internal/config"
	"devscanner/internal/domain"
	"devscanner/internal/extractor"
	"devscanner/internal/ingest"
	"devscanner/internal/logging"
	"devscanner/internal/ports"
	"devscanner/internal/scheduler"
	"devscanner/internal/scoring"
	"devscanner/internal/service"
	"devscanner/internal/storage"
)

// Application wires configuration to the scan pipeline and lifecycle
// orchestration.
type Application struct {
	cfg     config.Config
	source  *extractor.Source
	service *service.ProcessingService
	areas   *area.StaticDirectory
	cleanup ports.Scheduler
	logger  *slog.Logger
}

// New builds a runnable application instance on top of an opened database.
func New(cfg config.Config, db *sql.DB, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := extractor.BuildRegistry(cfg.Sources, baseLogger)
	source := extractor.NewSource(registry, baseLogger.With("component", "source"))

	store := storage.NewPostgresRepository(db)

	var scorer ports.ImpactScorer
	if cfg.Scoring.URL != "" {
		scorer = scoring.NewClient(cfg.Scoring.URL, cfg.Scoring.APIKey)
	}

	ingestor := ingest.New(store, scorer, baseLogger.With("component", "ingest"))
	svc := service.New(ingestor, store, cfg.Processing.Lookback(), baseLogger.With("component", "service"))

	var cleanup ports.Scheduler
	if cfg.Cleanup.Enabled {
		cleanup = scheduler.NewTickerScheduler(time.Duration(cfg.Cleanup.IntervalHours) * time.Hour)
	}

	return &Application{
		cfg:     cfg,
		source:  source,
		service: svc,
		areas:   area.NewStaticDirectory(cfg.Areas),
		cleanup: cleanup,
		logger:  baseLogger.With("component", "app"),
	}
}

// Run performs one scan over every configured area: collect articles from
// all sources, then process the batch. The returned error reflects partial
// batch failure; successful areas are already persisted by then.
func (a *Application) Run(ctx context.Context) error {
	fromDate := time.Now().Add(-a.cfg.Processing.Lookback())

	var jobs []domain.ProcessingJobData
	for _, areaID := range a.areas.IDs() {
		areaName, err := a.areas.AreaName(ctx, areaID)
		if err != nil {
			a.logger.Warn("skipping unknown area", "areaId", areaID, "error", err)
			continue
		}

		articles := a.source.CollectArticles(ctx, areaName, fromDate)
		if len(articles) == 0 {
			a.logger.Info("no articles collected", "areaId", areaID)
			continue
		}

		jobs = append(jobs, domain.ProcessingJobData{
			JobID:    uuid.NewString(),
			AreaID:   areaID,
			AreaName: areaName,
			Articles: articles,
		})
	}

	if len(jobs) == 0 {
		a.logger.Info("nothing to process")
		return nil
	}

	results, err := a.service.ProcessBatchAreas(ctx, jobs)
	for _, result := range results {
		a.logger.Info("area processed",
			"areaId", result.AreaID,
			"created", len(result.CreatedDevelopments),
			"skipped", result.SkippedCount,
			"errors", len(result.Errors),
			"took", result.ProcessingTime,
		)
	}
	return err
}

// StartCleanup launches the periodic expiry of stale developments when
// enabled in config.
func (a *Application) StartCleanup(ctx context.Context) error {
	if a.cleanup == nil {
		return nil
	}

	return a.cleanup.Start(ctx, func(time.Time) {
		for _, areaID := range a.areas.IDs() {
			deleted, err := a.service.CleanupOldDevelopments(ctx, areaID, a.cfg.Cleanup.MaxAgeDays)
			if err != nil {
				a.logger.Warn("cleanup failed", "areaId", areaID, "error", err)
				continue
			}
			if deleted > 0 {
				a.logger.Info("cleaned up developments", "areaId", areaID, "deleted", deleted)
			}
		}
	})
}

// StopCleanup halts the cleanup scheduler.
func (a *Application) StopCleanup(ctx context.Context) error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup.Stop(ctx)
}
