package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devscanner/internal/domain"
)

func article(title, content, url string, published time.Time) domain.ArticleData {
	return domain.ArticleData{
		Title:          title,
		Content:        content,
		URL:            url,
		PublishDate:    published,
		Source:         "straitstimes",
		DateConfidence: domain.DateConfidenceParsed,
	}
}

func TestFilterDevelopmentContent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	in := []domain.ArticleData{
		article("New MRT station for Tampines", "The interchange opens in 2028.", "https://x/a", now),
		article("Weekend weather outlook", "Sunny with showers.", "https://x/b", now),
		article("Mall anchor tenant signed", "A supermarket joins the retail mix.", "https://x/c", now),
	}

	out := FilterDevelopmentContent(in)
	require.Len(t, out, 2)
	assert.Equal(t, "https://x/a", out[0].URL)
	assert.Equal(t, "https://x/c", out[1].URL)
}

func TestDeduplicateArticlesStableFirstWins(t *testing.T) {
	t.Parallel()

	now := time.Now()
	in := []domain.ArticleData{
		article("first", "c", "https://News.example.com/story/", now),
		article("other", "c", "https://news.example.com/other", now),
		article("dup", "c", "https://news.example.com/story#frag", now),
		article("third", "c", "https://news.example.com/third", now),
	}

	out := DeduplicateArticles(in)
	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "other", out[1].Title)
	assert.Equal(t, "third", out[2].Title)

	seen := map[string]bool{}
	for _, a := range out {
		key := NormalizeURL(a.URL)
		assert.False(t, seen[key], "duplicate url survived: %s", a.URL)
		seen[key] = true
	}
}

func TestFilterByDateRangeBoundaryInclusive(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.ArticleData{
		article("after", "c", "https://x/a", since.AddDate(0, 1, 0)),
		article("on-boundary", "c", "https://x/b", since),
		article("before", "c", "https://x/c", since.Add(-time.Second)),
	}

	out := FilterByDateRange(in, since)
	require.Len(t, out, 2)
	assert.Equal(t, "after", out[0].Title)
	assert.Equal(t, "on-boundary", out[1].Title)
}

func TestProcessArticlesClassification(t *testing.T) {
	t.Parallel()

	now := time.Now()
	in := []domain.ArticleData{
		article("New school campus announced", "The school adds a kindergarten wing for students.", "https://x/school", now),
		article("MRT extension to open", "The new MRT interchange cuts transport time.", "https://x/mrt", now),
		article("Shopping mall breaks ground", "The mall brings retail and a supermarket.", "https://x/mall", now),
		article("Tech headquarters relocating", "The company opens a business park office.", "https://x/office", now),
	}

	out := ProcessArticles(in)
	require.Len(t, out, 4)
	assert.Equal(t, domain.TypeSchool, out[0].Type)
	assert.Equal(t, domain.TypeInfrastructure, out[1].Type)
	assert.Equal(t, domain.TypeShopping, out[2].Type)
	assert.Equal(t, domain.TypeBusiness, out[3].Type)

	for _, p := range out {
		assert.GreaterOrEqual(t, p.ImpactScore, 1.0)
		assert.LessOrEqual(t, p.ImpactScore, 10.0)
		assert.NotEmpty(t, p.Description)
	}
}

func TestProcessArticlesNeverDropsUnclassifiable(t *testing.T) {
	t.Parallel()

	in := []domain.ArticleData{
		article("Mystery item", "Nothing relevant here at all.", "https://x/mystery", time.Now()),
	}

	out := ProcessArticles(in)
	require.Len(t, out, 1)
	assert.Equal(t, domain.TypeBusiness, out[0].Type)
	assert.Equal(t, 1.0, out[0].ImpactScore)
}

func TestImpactScoreRecency(t *testing.T) {
	t.Parallel()

	fresh := article("New school campus", "school school school", "https://x/f", time.Now().Add(-24*time.Hour))
	stale := article("New school campus", "school school school", "https://x/s", time.Now().AddDate(-2, 0, 0))

	out := ProcessArticles([]domain.ArticleData{fresh, stale})
	require.Len(t, out, 2)
	assert.Greater(t, out[0].ImpactScore, out[1].ImpactScore)
}

func TestImpactScoreAssumedDateGetsLessRecencyCredit(t *testing.T) {
	t.Parallel()

	now := time.Now()
	parsed := article("New school campus", "school opening", "https://x/p", now)
	assumed := parsed
	assumed.URL = "https://x/q"
	assumed.DateConfidence = domain.DateConfidenceAssumed

	out := ProcessArticles([]domain.ArticleData{parsed, assumed})
	require.Len(t, out, 2)
	assert.Greater(t, out[0].ImpactScore, out[1].ImpactScore)
}

func TestDescribeTruncates(t *testing.T) {
	t.Parallel()

	long := ""
	for i := 0; i < 100; i++ {
		long += "a new mall opens soon "
	}

	out := ProcessArticles([]domain.ArticleData{article("Mall", long, "https://x/long", time.Now())})
	require.Len(t, out, 1)
	assert.LessOrEqual(t, len(out[0].Description), 290)
}
