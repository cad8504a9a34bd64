package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPostSource struct {
	posts []models.Post
	err   error
}

func (m *mockPostSource) GetPublishedPosts(ctx context.Context) ([]models.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.posts, nil
}

type mockCategorySource struct {
	categories []models.Category
	postIDs    map[uint][]string
	err        error
}

func (m *mockCategorySource) ListCategories() ([]models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockCategorySource) GetPostIDsByCategory(categoryID uint) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.postIDs[categoryID], nil
}

type mockSearcher struct {
	hits  []string
	err   error
	calls int
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func newTestResolver(posts *mockPostSource, categories *mockCategorySource, searcher TextSearcher, now time.Time) *Resolver {
	r := NewResolver(posts, categories, searcher)
	r.now = func() time.Time { return now }
	return r
}

func TestResolveEmptyFilterReturnsAllPublishedNewestFirst(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 3)},
		{ID: oid(t, "000000000000000000000002"), Published: true, CreatedAt: daysAgo(now, 1)},
		{ID: oid(t, "000000000000000000000003"), Published: true, CreatedAt: daysAgo(now, 2)},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, now)

	res, err := r.Resolve(context.Background(), Filter{})

	require.NoError(t, err)
	assert.False(t, res.Degraded)
	require.Len(t, res.Posts, 3)
	assert.Equal(t, "000000000000000000000002", res.Posts[0].ID.Hex())
	assert.Equal(t, "000000000000000000000003", res.Posts[1].ID.Hex())
	assert.Equal(t, "000000000000000000000001", res.Posts[2].ID.Hex())
}

func TestResolveIsDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	created := daysAgo(now, 1)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "0000000000000000000000aa"), Published: true, CreatedAt: created},
		{ID: oid(t, "0000000000000000000000bb"), Published: true, CreatedAt: created},
		{ID: oid(t, "0000000000000000000000cc"), Published: true, CreatedAt: created},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, now)

	first, err := r.Resolve(context.Background(), Filter{})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), Filter{})
	require.NoError(t, err)

	require.Equal(t, len(first.Posts), len(second.Posts))
	for i := range first.Posts {
		assert.Equal(t, first.Posts[i].ID, second.Posts[i].ID)
	}
	// Equal timestamps fall back to the document ID, descending.
	assert.Equal(t, "0000000000000000000000cc", first.Posts[0].ID.Hex())
	assert.Equal(t, "0000000000000000000000bb", first.Posts[1].ID.Hex())
	assert.Equal(t, "0000000000000000000000aa", first.Posts[2].ID.Hex())
}

func TestResolveTagSelectionIsConjunctive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Tags: []string{"a", "b"}, Published: true, CreatedAt: daysAgo(now, 1)},
		{ID: oid(t, "000000000000000000000002"), Tags: []string{"a", "c"}, Published: true, CreatedAt: daysAgo(now, 2)},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, now)

	res, err := r.Resolve(context.Background(), Filter{Tags: []string{"a", "b"}})

	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "000000000000000000000001", res.Posts[0].ID.Hex())
}

func TestResolveAuthorFilter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), AuthorID: 7, Published: true, CreatedAt: daysAgo(now, 1)},
		{ID: oid(t, "000000000000000000000002"), AuthorID: 8, Published: true, CreatedAt: daysAgo(now, 2)},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, now)

	res, err := r.Resolve(context.Background(), Filter{AuthorID: 7})

	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, uint(7), res.Posts[0].AuthorID)
}

func TestResolveDateRangeFilter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 2)},
		{ID: oid(t, "000000000000000000000002"), Published: true, CreatedAt: daysAgo(now, 20)},
		{ID: oid(t, "000000000000000000000003"), Published: true, CreatedAt: daysAgo(now, 400)},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, now)

	week, err := r.Resolve(context.Background(), Filter{Range: DateRangeWeek})
	require.NoError(t, err)
	require.Len(t, week.Posts, 1)
	assert.Equal(t, "000000000000000000000001", week.Posts[0].ID.Hex())

	month, err := r.Resolve(context.Background(), Filter{Range: DateRangeMonth})
	require.NoError(t, err)
	assert.Len(t, month.Posts, 2)

	year, err := r.Resolve(context.Background(), Filter{Range: DateRangeYear})
	require.NoError(t, err)
	assert.Len(t, year.Posts, 2)

	all, err := r.Resolve(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all.Posts, 3)
}

func TestResolveCategoryFilter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 1)},
		{ID: oid(t, "000000000000000000000002"), Published: true, CreatedAt: daysAgo(now, 2)},
	}}
	categories := &mockCategorySource{postIDs: map[uint][]string{
		4: {"000000000000000000000002"},
	}}
	r := newTestResolver(posts, categories, &mockSearcher{}, now)

	res, err := r.Resolve(context.Background(), Filter{CategoryID: 4})

	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "000000000000000000000002", res.Posts[0].ID.Hex())
	assert.False(t, res.Degraded)
}

func TestResolveCategoryLookupFailureDegrades(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 1)},
	}}
	categories := &mockCategorySource{err: errors.New("pg down")}
	r := newTestResolver(posts, categories, &mockSearcher{}, now)

	res, err := r.Resolve(context.Background(), Filter{CategoryID: 4})

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.NotNil(t, res.Posts)
	assert.Empty(t, res.Posts)
}

func TestResolveTextQueryNarrowsToHits(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 1)},
		{ID: oid(t, "000000000000000000000002"), Published: true, CreatedAt: daysAgo(now, 2)},
	}}
	searcher := &mockSearcher{hits: []string{"000000000000000000000002"}}
	r := newTestResolver(posts, &mockCategorySource{}, searcher, now)

	res, err := r.Resolve(context.Background(), Filter{Query: "gophers"})

	require.NoError(t, err)
	assert.Equal(t, 1, searcher.calls)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "000000000000000000000002", res.Posts[0].ID.Hex())
}

func TestResolveWhitespaceQuerySkipsSearcher(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 1)},
	}}
	searcher := &mockSearcher{err: errors.New("must not be called")}
	r := newTestResolver(posts, &mockCategorySource{}, searcher, now)

	res, err := r.Resolve(context.Background(), Filter{Query: "   "})

	require.NoError(t, err)
	assert.Equal(t, 0, searcher.calls)
	assert.False(t, res.Degraded)
	assert.Len(t, res.Posts, 1)
}

func TestResolveSearcherFailureDegrades(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 1)},
	}}
	searcher := &mockSearcher{err: errors.New("index corrupt")}
	r := newTestResolver(posts, &mockCategorySource{}, searcher, now)

	res, err := r.Resolve(context.Background(), Filter{Query: "gophers"})

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.NotNil(t, res.Posts)
	assert.Empty(t, res.Posts)
}

func TestResolveNilSearcherDegradesOnQuery(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Published: true, CreatedAt: daysAgo(now, 1)},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, nil, now)

	res, err := r.Resolve(context.Background(), Filter{Query: "gophers"})

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Posts)
}

func TestResolvePostSourceErrorPropagates(t *testing.T) {
	posts := &mockPostSource{err: errors.New("mongo down")}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, time.Now())

	_, err := r.Resolve(context.Background(), Filter{})

	assert.Error(t, err)
}

func TestResolveNoMatchesReturnsEmptyResult(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), Tags: []string{"go"}, Published: true, CreatedAt: daysAgo(now, 1)},
	}}
	r := newTestResolver(posts, &mockCategorySource{}, &mockSearcher{}, now)

	res, err := r.Resolve(context.Background(), Filter{Tags: []string{"haskell"}})

	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.NotNil(t, res.Posts)
	assert.Empty(t, res.Posts)
}

func TestResolveCombinedFiltersIntersect(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &mockPostSource{posts: []models.Post{
		{ID: oid(t, "000000000000000000000001"), AuthorID: 7, Tags: []string{"go"}, Published: true, CreatedAt: daysAgo(now, 1)},
		{ID: oid(t, "000000000000000000000002"), AuthorID: 7, Tags: []string{"go"}, Published: true, CreatedAt: daysAgo(now, 2)},
		{ID: oid(t, "000000000000000000000003"), AuthorID: 8, Tags: []string{"go"}, Published: true, CreatedAt: daysAgo(now, 3)},
	}}
	searcher := &mockSearcher{hits: []string{"000000000000000000000002", "000000000000000000000003"}}
	r := newTestResolver(posts, &mockCategorySource{}, searcher, now)

	res, err := r.Resolve(context.Background(), Filter{Query: "gophers", AuthorID: 7, Tags: []string{"go"}})

	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "000000000000000000000002", res.Posts[0].ID.Hex())
}
