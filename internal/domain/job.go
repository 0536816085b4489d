package domain

import "time"

// ProcessingJobData is the unit of work submitted to the orchestrator: one
// area's batch of raw articles. Ephemeral, never persisted.
type ProcessingJobData struct {
	JobID    string
	AreaID   string
	AreaName string
	Articles []ArticleData
}

// ValidationResult reports whether a job may be processed.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ProcessingResult is the outcome of processing one job.
type ProcessingResult struct {
	JobID               string
	AreaID              string
	Success             bool
	ProcessedCount      int
	CreatedDevelopments []Development
	SkippedCount        int
	Errors              []string
	ProcessingTime      time.Duration
}

// ProcessingStats summarizes persisted developments for one area or, when
// AreaID is empty, across all areas.
type ProcessingStats struct {
	AreaID             string
	TotalDevelopments  int
	CountByType        map[DevelopmentType]int
	LatestAnnouncement time.Time
}
