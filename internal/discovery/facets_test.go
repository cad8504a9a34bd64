package discovery

import (
	"errors"
	"testing"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthorSource struct {
	authors []models.User
	err     error
}

func (m *mockAuthorSource) ListAuthors() ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.authors, nil
}

func TestFacetStoreListCategories(t *testing.T) {
	store := NewFacetStore(&mockCategorySource{categories: []models.Category{
		{Name: "Engineering"},
		{Name: "Essays"},
	}}, &mockAuthorSource{})

	categories := store.ListCategories()

	require.Len(t, categories, 2)
	assert.Equal(t, "Engineering", categories[0].Name)
}

func TestFacetStoreListCategoriesDegradesToEmpty(t *testing.T) {
	store := NewFacetStore(&mockCategorySource{err: errors.New("pg down")}, &mockAuthorSource{})

	categories := store.ListCategories()

	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestFacetStoreListAuthorsProjectsToCompact(t *testing.T) {
	author := models.User{DisplayName: "Ada", AvatarURL: "https://example.com/a.png"}
	author.ID = 42
	store := NewFacetStore(&mockCategorySource{}, &mockAuthorSource{authors: []models.User{author}})

	authors := store.ListAuthors()

	require.Len(t, authors, 1)
	assert.Equal(t, uint(42), authors[0].ID)
	assert.Equal(t, "Ada", authors[0].DisplayName)
}

func TestFacetStoreListAuthorsDegradesToEmpty(t *testing.T) {
	store := NewFacetStore(&mockCategorySource{}, &mockAuthorSource{err: errors.New("pg down")})

	authors := store.ListAuthors()

	assert.NotNil(t, authors)
	assert.Empty(t, authors)
}

func TestCollectTagsDeduplicatesAndSorts(t *testing.T) {
	posts := []models.Post{
		{Tags: []string{"web", "go"}},
		{Tags: []string{"go", "databases"}},
		{Tags: nil},
	}

	tags := CollectTags(posts)

	assert.Equal(t, []string{"databases", "go", "web"}, tags)
}

func TestCollectTagsEmptyInput(t *testing.T) {
	assert.Empty(t, CollectTags(nil))
	assert.NotNil(t, CollectTags(nil))
}
