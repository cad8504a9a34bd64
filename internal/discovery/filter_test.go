package discovery

import (
	"testing"
	"time"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFilterNormalizeTrimsQuery(t *testing.T) {
	f := Filter{Query: "  concurrency  "}
	assert.Equal(t, "concurrency", f.Normalize().Query)

	f = Filter{Query: "   "}
	assert.Equal(t, "", f.Normalize().Query)
	assert.False(t, f.Normalize().HasQuery())
}

func TestFilterNormalizeLeavesFacetsUntouched(t *testing.T) {
	f := Filter{
		Query:      " x ",
		AuthorID:   3,
		CategoryID: 5,
		Tags:       []string{"go", "web"},
		Range:      DateRangeMonth,
	}
	n := f.Normalize()
	assert.Equal(t, uint(3), n.AuthorID)
	assert.Equal(t, uint(5), n.CategoryID)
	assert.Equal(t, []string{"go", "web"}, n.Tags)
	assert.Equal(t, DateRangeMonth, n.Range)
}

func TestFilterIsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.True(t, Filter{Query: "  "}.IsEmpty())
	assert.False(t, Filter{Query: "go"}.IsEmpty())
	assert.False(t, Filter{AuthorID: 1}.IsEmpty())
	assert.False(t, Filter{CategoryID: 1}.IsEmpty())
	assert.False(t, Filter{Tags: []string{"go"}}.IsEmpty())
	assert.False(t, Filter{Range: DateRangeWeek}.IsEmpty())
}

func TestFilterCutoffBoundaries(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	cutoff, ok := Filter{Range: DateRangeWeek}.cutoff(now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), cutoff)

	cutoff, ok = Filter{Range: DateRangeMonth}.cutoff(now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, -1, 0), cutoff)

	cutoff, ok = Filter{Range: DateRangeYear}.cutoff(now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(-1, 0, 0), cutoff)

	_, ok = Filter{}.cutoff(now)
	assert.False(t, ok)
}

func TestMatchesFacetsPostExactlyAtCutoffIsKept(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	post := models.Post{Published: true, CreatedAt: now.AddDate(0, 0, -7)}
	f := Filter{Range: DateRangeWeek}

	assert.True(t, f.matchesFacets(&post, now))

	post.CreatedAt = post.CreatedAt.Add(-time.Second)
	assert.False(t, f.matchesFacets(&post, now))
}

func TestMatchesFacetsTagsAreCaseSensitive(t *testing.T) {
	now := time.Now()
	post := models.Post{Tags: []string{"Go"}}

	assert.False(t, Filter{Tags: []string{"go"}}.matchesFacets(&post, now))
	assert.True(t, Filter{Tags: []string{"Go"}}.matchesFacets(&post, now))
}
