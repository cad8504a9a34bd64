package discovery

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/openquill/inkwell/backend/internal/models"
)

// Result is an ordered result set. Degraded is set when a collaborator lookup
// failed and the resolver returned the safe subset instead of an error.
type Result struct {
	Posts    []models.Post
	Degraded bool
}

// Resolver executes filter predicates over the published post collection. The
// text predicate is delegated to the collaborator searcher; everything else is
// an in-memory scan.
type Resolver struct {
	posts      PostSource
	categories CategorySource
	searcher   TextSearcher
	now        func() time.Time
}

// NewResolver creates a Resolver. The searcher may be nil, in which case any
// text query degrades to an empty result.
func NewResolver(posts PostSource, categories CategorySource, searcher TextSearcher) *Resolver {
	return &Resolver{
		posts:      posts,
		categories: categories,
		searcher:   searcher,
		now:        time.Now,
	}
}

// Now exposes the resolver's clock so callers can score related posts against
// the same notion of time the date predicates use.
func (r *Resolver) Now() time.Time {
	return r.now()
}

// Resolve applies the filter and returns matches ordered by created_at
// descending, ties broken by post ID so repeated calls over identical data
// produce identical output. An empty filter returns every published post; a
// filter that matches nothing returns an empty result, never an error.
func (r *Resolver) Resolve(ctx context.Context, filter Filter) (Result, error) {
	filter = filter.Normalize()

	candidates, err := r.posts.GetPublishedPosts(ctx)
	if err != nil {
		return Result{}, err
	}

	if filter.HasQuery() {
		matched, ok := r.applyTextPredicate(ctx, filter.Query, candidates)
		if !ok {
			// Searcher failure: treat the text predicate as matching nothing
			// rather than matching everything, and tell the caller.
			return Result{Posts: []models.Post{}, Degraded: true}, nil
		}
		candidates = matched
	}

	if filter.CategoryID != 0 {
		matched, ok := r.applyCategoryPredicate(filter.CategoryID, candidates)
		if !ok {
			return Result{Posts: []models.Post{}, Degraded: true}, nil
		}
		candidates = matched
	}

	now := r.now()
	results := make([]models.Post, 0, len(candidates))
	for _, post := range candidates {
		if filter.matchesFacets(&post, now) {
			results = append(results, post)
		}
	}

	sortByRecency(results)
	return Result{Posts: results}, nil
}

// applyTextPredicate keeps only the candidates the collaborator searcher
// matched. ok=false signals a searcher failure.
func (r *Resolver) applyTextPredicate(ctx context.Context, query string, candidates []models.Post) ([]models.Post, bool) {
	if r.searcher == nil {
		return nil, false
	}
	ids, err := r.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("discovery: text search failed, degrading: %v", err)
		return nil, false
	}
	matched := make(map[string]bool, len(ids))
	for _, id := range ids {
		matched[id] = true
	}
	kept := make([]models.Post, 0, len(ids))
	for _, post := range candidates {
		if matched[post.ID.Hex()] {
			kept = append(kept, post)
		}
	}
	return kept, true
}

// applyCategoryPredicate keeps only candidates assigned to the category.
// ok=false signals a lookup failure.
func (r *Resolver) applyCategoryPredicate(categoryID uint, candidates []models.Post) ([]models.Post, bool) {
	ids, err := r.categories.GetPostIDsByCategory(categoryID)
	if err != nil {
		log.Printf("discovery: category lookup failed, degrading: %v", err)
		return nil, false
	}
	inCategory := make(map[string]bool, len(ids))
	for _, id := range ids {
		inCategory[id] = true
	}
	kept := make([]models.Post, 0, len(candidates))
	for _, post := range candidates {
		if inCategory[post.ID.Hex()] {
			kept = append(kept, post)
		}
	}
	return kept, true
}

// sortByRecency orders posts by created_at descending with the post ID as a
// stable secondary key.
func sortByRecency(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
}
