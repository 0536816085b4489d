// Package service orchestrates article processing: it validates a unit of
// work, drives the content processor and the ingestion pipeline, and
// aggregates per-stage failures into structured results.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devscanner/internal/domain"
	"devscanner/internal/ingest"
	"devscanner/internal/ports"
	"devscanner/internal/processor"
)

// Validation spot-checks only the first validationSpotCheck articles of a
// job; the rest of the batch is not scanned.
const validationSpotCheck = 5

// ProcessingService exposes the batch/statistics/cleanup operations over
// the processing chain.
type ProcessingService struct {
	ingestor *ingest.Ingestor
	store    ports.DevelopmentStore
	lookback time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New builds the orchestrator. A non-positive lookback defaults to twelve
// months.
func New(ingestor *ingest.Ingestor, store ports.DevelopmentStore, lookback time.Duration, logger *slog.Logger) *ProcessingService {
	if lookback <= 0 {
		lookback = 12 * 30 * 24 * time.Hour
	}
	return &ProcessingService{
		ingestor: ingestor,
		store:    store,
		lookback: lookback,
		logger:   logger,
		now:      time.Now,
	}
}

// ValidateProcessingJobData rejects malformed jobs before any network or
// storage activity happens.
func (s *ProcessingService) ValidateProcessingJobData(job domain.ProcessingJobData) domain.ValidationResult {
	var errs []string

	if strings.TrimSpace(job.JobID) == "" {
		errs = append(errs, "jobId is required")
	}
	if strings.TrimSpace(job.AreaID) == "" {
		errs = append(errs, "areaId is required")
	}
	if strings.TrimSpace(job.AreaName) == "" {
		errs = append(errs, "areaName is required")
	}

	if len(job.Articles) == 0 {
		errs = append(errs, "job must contain at least one article")
	} else {
		limit := len(job.Articles)
		if limit > validationSpotCheck {
			limit = validationSpotCheck
		}
		for idx, article := range job.Articles[:limit] {
			if missing := missingArticleFields(article); len(missing) > 0 {
				errs = append(errs, fmt.Sprintf("article %d is missing %s", idx, strings.Join(missing, ", ")))
			}
		}
	}

	return domain.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// ProcessArticlesForArea runs validate → filter → dedup → date window →
// classify → ingest for one job. Any stage panic becomes a failed result;
// nothing propagates to the caller.
func (s *ProcessingService) ProcessArticlesForArea(ctx context.Context, job domain.ProcessingJobData) (result domain.ProcessingResult) {
	start := s.now()
	result.JobID = job.JobID
	result.AreaID = job.AreaID

	defer func() {
		result.ProcessingTime = s.now().Sub(start)
		if r := recover(); r != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("processing panic: %v", r))
			s.warn("processing job panicked", "jobId", job.JobID, "panic", r)
		}
	}()

	if validation := s.ValidateProcessingJobData(job); !validation.IsValid {
		result.Errors = validation.Errors
		return result
	}

	articles := processor.FilterDevelopmentContent(job.Articles)
	articles = processor.DeduplicateArticles(articles)
	articles = processor.FilterByDateRange(articles, start.Add(-s.lookback))
	processed := processor.ProcessArticles(articles)

	ingested := s.ingestor.IngestArticles(ctx, processed, job.AreaID)

	result.ProcessedCount = len(processed)
	result.CreatedDevelopments = ingested.Created
	result.SkippedCount = ingested.Skipped
	result.Errors = ingested.Errors
	result.Success = len(ingested.Errors) == 0

	s.debug("job processed",
		"jobId", job.JobID,
		"areaId", job.AreaID,
		"processed", result.ProcessedCount,
		"created", len(result.CreatedDevelopments),
		"skipped", result.SkippedCount,
		"errors", len(result.Errors),
	)

	return result
}

// ProcessBatchAreas processes jobs strictly sequentially, continuing past
// failures. Every job's result is returned; the error is non-nil only when
// at least one job failed.
func (s *ProcessingService) ProcessBatchAreas(ctx context.Context, jobs []domain.ProcessingJobData) ([]domain.ProcessingResult, error) {
	results := make([]domain.ProcessingResult, 0, len(jobs))
	var failures []string

	for _, job := range jobs {
		result := s.ProcessArticlesForArea(ctx, job)
		results = append(results, result)
		if !result.Success {
			failures = append(failures, fmt.Sprintf("job %s: %s", job.JobID, strings.Join(result.Errors, "; ")))
		}
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("%d of %d jobs failed: %s", len(failures), len(jobs), strings.Join(failures, " | "))
	}
	return results, nil
}

// GetProcessingStatistics summarizes persisted developments. An empty
// areaID aggregates across all areas.
func (s *ProcessingService) GetProcessingStatistics(ctx context.Context, areaID string) (domain.ProcessingStats, error) {
	counts, err := s.store.CountDevelopmentsByType(ctx, areaID)
	if err != nil {
		return domain.ProcessingStats{}, fmt.Errorf("count developments: %w", err)
	}

	latest, err := s.store.LatestAnnouncement(ctx, areaID)
	if err != nil {
		return domain.ProcessingStats{}, fmt.Errorf("latest announcement: %w", err)
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	return domain.ProcessingStats{
		AreaID:             areaID,
		TotalDevelopments:  total,
		CountByType:        counts,
		LatestAnnouncement: latest,
	}, nil
}

// CleanupOldDevelopments expires developments older than the given number
// of days for one area and reports how many were removed.
func (s *ProcessingService) CleanupOldDevelopments(ctx context.Context, areaID string, olderThanDays int) (int, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("olderThanDays must be positive, got %d", olderThanDays)
	}

	deleted, err := s.store.DeleteDevelopmentsOlderThan(ctx, areaID, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("delete old developments: %w", err)
	}

	s.debug("cleanup done", "areaId", areaID, "olderThanDays", olderThanDays, "deleted", deleted)
	return deleted, nil
}

func missingArticleFields(article domain.ArticleData) []string {
	var missing []string
	if strings.TrimSpace(article.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(article.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(article.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(article.Source) == "" {
		missing = append(missing, "source")
	}
	return missing
}

func (s *ProcessingService) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *ProcessingService) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
