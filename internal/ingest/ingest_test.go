package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devscanner/internal/domain"
)

type fakeStore struct {
	developments map[string]domain.Development
	failCreateOn string
	lookupErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{developments: map[string]domain.Development{}}
}

func (s *fakeStore) key(areaID, url string) string {
	return areaID + "|" + url
}

func (s *fakeStore) FindDevelopmentByAreaAndURL(_ context.Context, areaID, url string) (*domain.Development, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if dev, ok := s.developments[s.key(areaID, url)]; ok {
		return &dev, nil
	}
	return nil, nil
}

func (s *fakeStore) CreateDevelopment(_ context.Context, dev domain.Development) (domain.Development, error) {
	if dev.Source.URL == s.failCreateOn {
		return domain.Development{}, errors.New("connection reset")
	}
	s.developments[s.key(dev.AreaID, dev.Source.URL)] = dev
	return dev, nil
}

func (s *fakeStore) DeleteDevelopmentsOlderThan(_ context.Context, areaID string, days int) (int, error) {
	return 0, nil
}

func (s *fakeStore) CountDevelopmentsByType(_ context.Context, areaID string) (map[domain.DevelopmentType]int, error) {
	counts := map[domain.DevelopmentType]int{}
	for _, dev := range s.developments {
		counts[dev.Type]++
	}
	return counts, nil
}

func (s *fakeStore) LatestAnnouncement(_ context.Context, areaID string) (time.Time, error) {
	return time.Time{}, nil
}

type fixedScorer struct {
	score float64
	err   error
}

func (f fixedScorer) ScoreDevelopment(_ context.Context, _ domain.ProcessedArticle) (float64, error) {
	return f.score, f.err
}

func processedArticle(url string) domain.ProcessedArticle {
	return domain.ProcessedArticle{
		ArticleData: domain.ArticleData{
			Title:       "New school",
			Content:     "A school opens.",
			URL:         url,
			PublishDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			Source:      "straitstimes",
		},
		Type:        domain.TypeSchool,
		ImpactScore: 5.5,
		Description: "A school opens.",
	}
}

func TestIngestCreatesDevelopments(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	ing := New(store, nil, nil)

	articles := []domain.ProcessedArticle{
		processedArticle("https://x/a"),
		processedArticle("https://x/b"),
	}

	result := ing.IngestArticles(context.Background(), articles, "tampines")

	require.Len(t, result.Created, 2)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	for _, dev := range result.Created {
		assert.NotEmpty(t, dev.ID)
		assert.Equal(t, "tampines", dev.AreaID)
		assert.Equal(t, domain.TypeSchool, dev.Type)
		assert.Equal(t, 5.5, dev.ImpactScore)
		assert.Equal(t, "straitstimes", dev.Source.Publisher)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	ing := New(store, nil, nil)

	articles := []domain.ProcessedArticle{
		processedArticle("https://x/a"),
		processedArticle("https://x/b"),
		processedArticle("https://x/c"),
	}

	first := ing.IngestArticles(context.Background(), articles, "punggol")
	require.Len(t, first.Created, 3)
	require.Zero(t, first.Skipped)

	second := ing.IngestArticles(context.Background(), articles, "punggol")
	assert.Empty(t, second.Created)
	assert.Equal(t, len(articles), second.Skipped)
	assert.Empty(t, second.Errors)
}

func TestIngestPartialFailureContinues(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.failCreateOn = "https://x/b"
	ing := New(store, nil, nil)

	articles := []domain.ProcessedArticle{
		processedArticle("https://x/a"),
		processedArticle("https://x/b"),
		processedArticle("https://x/c"),
	}

	result := ing.IngestArticles(context.Background(), articles, "tampines")

	require.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "https://x/b")
	assert.Contains(t, result.Errors[0], "connection reset")
}

func TestIngestLookupFailureRecorded(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.lookupErr = fmt.Errorf("db offline")
	ing := New(store, nil, nil)

	result := ing.IngestArticles(context.Background(), []domain.ProcessedArticle{processedArticle("https://x/a")}, "tampines")

	assert.Empty(t, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "lookup")
}

func TestIngestRemoteScorerOverridesHeuristic(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	ing := New(store, fixedScorer{score: 8.25}, nil)

	result := ing.IngestArticles(context.Background(), []domain.ProcessedArticle{processedArticle("https://x/a")}, "tampines")

	require.Len(t, result.Created, 1)
	assert.Equal(t, 8.25, result.Created[0].ImpactScore)
}

func TestIngestScorerFailureFallsBack(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	ing := New(store, fixedScorer{err: errors.New("model offline")}, nil)

	result := ing.IngestArticles(context.Background(), []domain.ProcessedArticle{processedArticle("https://x/a")}, "tampines")

	require.Len(t, result.Created, 1)
	assert.Equal(t, 5.5, result.Created[0].ImpactScore)
	assert.Empty(t, result.Errors)
}
