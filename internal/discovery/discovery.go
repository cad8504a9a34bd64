// Package discovery turns the raw post collection into searched, faceted and
// ranked result sets. It is a pure logic layer: all storage access goes
// through the narrow interfaces below, and everything between store calls is
// synchronous and side-effect free.
package discovery

import (
	"context"

	"github.com/openquill/inkwell/backend/internal/models"
)

// PostSource supplies the published post collection
type PostSource interface {
	GetPublishedPosts(ctx context.Context) ([]models.Post, error)
}

// CategorySource supplies the category facet dimension
type CategorySource interface {
	ListCategories() ([]models.Category, error)
	GetPostIDsByCategory(categoryID uint) ([]string, error)
}

// AuthorSource supplies the author facet dimension
type AuthorSource interface {
	ListAuthors() ([]models.User, error)
}

// TextSearcher is the collaborator full-text capability. It returns the IDs of
// matching posts with no ranking guarantees.
type TextSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}
