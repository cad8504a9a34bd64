// Package search provides the full-text capability the discovery resolver
// delegates to. It wraps an in-memory bleve index over the published post
// collection; matching is best effort and carries no ranking guarantees.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/openquill/inkwell/backend/internal/models"
)

// maxHits bounds one search. The candidate set is re-filtered by the resolver
// anyway, so this only needs to exceed any plausible published-post count.
const maxHits = 1000

// postDocument is the indexed projection of a post
type postDocument struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

// Index is a thread-safe full-text index over published posts
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

// NewMemoryIndex creates an in-memory index. It is rebuilt from the post
// store at startup and kept current by the post handlers.
func NewMemoryIndex() (*Index, error) {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", textField)
	doc.AddFieldMappingsAt("content", textField)
	doc.AddFieldMappingsAt("excerpt", textField)
	doc.AddFieldMappingsAt("tags", textField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = doc
	indexMapping.DefaultAnalyzer = standard.Name

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// IndexPost adds or updates a post in the index. Unpublished posts are
// removed instead, so they stop matching the moment the flag flips.
func (i *Index) IndexPost(post *models.Post) error {
	id := post.ID.Hex()
	if !post.Published {
		return i.RemovePost(id)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.idx.Index(id, postDocument{
		Title:   post.Title,
		Content: post.Content,
		Excerpt: post.Excerpt,
		Tags:    post.Tags,
	})
}

// RemovePost deletes a post from the index. Removing an unindexed post is a
// no-op.
func (i *Index) RemovePost(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.idx.Delete(id)
}

// Rebuild reindexes the given posts from scratch-equivalent state. Used at
// startup to seed the in-memory index from the store.
func (i *Index) Rebuild(posts []models.Post) error {
	for idx := range posts {
		if err := i.IndexPost(&posts[idx]); err != nil {
			return err
		}
	}
	return nil
}

// Search returns the IDs of posts matching the query. Order is
// engine-defined; the resolver imposes its own ordering.
func (i *Index) Search(ctx context.Context, queryStr string) ([]string, error) {
	query := bleve.NewQueryStringQuery(queryStr)
	request := bleve.NewSearchRequest(query)
	request.Size = maxHits

	i.mu.RLock()
	defer i.mu.RUnlock()
	result, err := i.idx.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the index
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.idx.Close()
}
