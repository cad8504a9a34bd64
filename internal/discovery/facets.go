package discovery

import (
	"log"
	"sort"

	"github.com/openquill/inkwell/backend/internal/models"
)

// FacetStore exposes the enumerable filter dimensions. Lookups never fail:
// a collaborator error degrades to an empty facet so the discovery UI simply
// shows no filter options instead of an error state.
type FacetStore struct {
	categories CategorySource
	authors    AuthorSource
}

// NewFacetStore creates a FacetStore
func NewFacetStore(categories CategorySource, authors AuthorSource) *FacetStore {
	return &FacetStore{categories: categories, authors: authors}
}

// ListCategories returns all categories ordered by name, or an empty slice on
// store failure.
func (s *FacetStore) ListCategories() []models.Category {
	categories, err := s.categories.ListCategories()
	if err != nil {
		log.Printf("discovery: category facet unavailable: %v", err)
		return []models.Category{}
	}
	return categories
}

// ListAuthors returns the author facet, or an empty slice on store failure.
func (s *FacetStore) ListAuthors() []models.UserCompact {
	authors, err := s.authors.ListAuthors()
	if err != nil {
		log.Printf("discovery: author facet unavailable: %v", err)
		return []models.UserCompact{}
	}
	compact := make([]models.UserCompact, len(authors))
	for i, a := range authors {
		compact[i] = a.ToCompact()
	}
	return compact
}

// CollectTags returns the deduplicated union of tags across the given posts,
// sorted for a stable presentation order. Pure projection, no store access.
func CollectTags(posts []models.Post) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, post := range posts {
		for _, tag := range post.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
