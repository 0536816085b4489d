package domain

import "time"

// DevelopmentType classifies what kind of real-world change an article
// describes.
type DevelopmentType string

const (
	TypeSchool         DevelopmentType = "school"
	TypeInfrastructure DevelopmentType = "infrastructure"
	TypeShopping       DevelopmentType = "shopping"
	TypeBusiness       DevelopmentType = "business"
)

// DateConfidence records whether an article's publish date was actually
// parsed from the page or assumed because no date element could be read.
type DateConfidence string

const (
	DateConfidenceParsed  DateConfidence = "parsed"
	DateConfidenceAssumed DateConfidence = "assumed"
)

// ArticleData is the raw output of a source extractor. Immutable once
// created; URL is the unique key within a processing run.
type ArticleData struct {
	Title          string
	Content        string
	URL            string
	PublishDate    time.Time
	Source         string
	DateConfidence DateConfidence
}

// ProcessedArticle is an ArticleData enriched with derived structured fields
// by the content processor.
type ProcessedArticle struct {
	ArticleData
	Type        DevelopmentType
	ImpactScore float64
	Description string
}

// SourceRef attributes a Development to the article it was derived from.
type SourceRef struct {
	URL         string
	Publisher   string
	PublishDate time.Time
}

// Development is the durable output entity: one record per unique
// (area, source URL) pair, never mutated after creation except by cleanup.
type Development struct {
	ID                 string
	AreaID             string
	Type               DevelopmentType
	Title              string
	Description        string
	ImpactScore        float64
	DateAnnounced      time.Time
	ExpectedCompletion *time.Time
	Source             SourceRef
}
