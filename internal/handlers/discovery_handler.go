package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/discovery"
	"github.com/openquill/inkwell/backend/internal/engagement"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// DiscoveryHandler serves the search, filter and related-content endpoints
type DiscoveryHandler struct {
	resolver       *discovery.Resolver
	facets         *discovery.FacetStore
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	categoryRepo   repositories.CategoryRepository
	ledger         *engagement.Ledger
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(
	resolver *discovery.Resolver,
	facets *discovery.FacetStore,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	ledger *engagement.Ledger,
) *DiscoveryHandler {
	return &DiscoveryHandler{
		resolver:       resolver,
		facets:         facets,
		postRepository: postRepo,
		userRepository: userRepo,
		categoryRepo:   categoryRepo,
		ledger:         ledger,
	}
}

// RegisterDiscoveryRoutes registers the public discovery routes
func (h *DiscoveryHandler) RegisterDiscoveryRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/related", h.GetRelatedPosts)
	g.GET("/tags", h.ListTags)
	g.GET("/categories", h.ListCategories)
	g.GET("/authors", h.ListAuthors)
}

// parseFilter builds the filter predicate from the request query parameters
func parseFilter(c echo.Context) discovery.Filter {
	filter := discovery.Filter{
		Query: c.QueryParam("q"),
		Range: discovery.DateRange(c.QueryParam("range")),
	}
	if authorID, err := strconv.ParseUint(c.QueryParam("author_id"), 10, 32); err == nil {
		filter.AuthorID = uint(authorID)
	}
	if categoryID, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 32); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if tags := c.QueryParam("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	return filter
}

// ListPosts resolves the discovery result set for the active filters. A
// failed search yields an empty, degraded result, never an error page.
func (h *DiscoveryHandler) ListPosts(c echo.Context) error {
	filter := parseFilter(c)

	result, err := h.resolver.Resolve(c.Request().Context(), filter)
	if err != nil {
		// Base collection unavailable: degrade to "no results".
		return c.JSON(http.StatusOK, echo.Map{
			"posts":    []models.Post{},
			"degraded": true,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"posts":    result.Posts,
		"degraded": result.Degraded,
	})
}

// PostDetail is a post enriched with author, categories and engagement counts
type PostDetail struct {
	models.Post
	Author     models.UserCompact `json:"author"`
	Categories []models.Category  `json:"categories"`
	Engagement engagement.Counts  `json:"engagement"`
}

// GetPost retrieves a single published post with its presentation context.
// Unpublished posts are only visible to their author.
func (h *DiscoveryHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userID := currentUserID(c)
	if !post.Published && post.AuthorID != userID {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	detail := PostDetail{
		Post:       *post,
		Engagement: h.ledger.Summary(c.Request().Context(), postID, userID, post.ViewCount),
	}
	if author, err := h.userRepository.GetUserByID(post.AuthorID); err == nil {
		detail.Author = author.ToCompact()
	}
	if categories, err := h.categoryRepo.GetCategoriesForPost(postID); err == nil {
		detail.Categories = categories
	} else {
		detail.Categories = []models.Category{}
	}

	return c.JSON(http.StatusOK, detail)
}

// GetRelatedPosts returns up to three posts related to the given one, scored
// by tag overlap and recency over a small recent candidate pool.
func (h *DiscoveryHandler) GetRelatedPosts(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result, err := h.resolver.Resolve(c.Request().Context(), discovery.Filter{})
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"posts": []models.Post{}})
	}

	// Cap the candidate pool so ranking stays O(pool size).
	pool := make([]models.Post, 0, discovery.DefaultRelatedPool)
	for _, candidate := range result.Posts {
		if candidate.ID == post.ID {
			continue
		}
		pool = append(pool, candidate)
		if len(pool) == discovery.DefaultRelatedPool {
			break
		}
	}

	related := discovery.RankRelated(post, pool, h.resolver.Now())
	return c.JSON(http.StatusOK, echo.Map{"posts": related})
}

// ListTags returns the deduplicated union of tags across published posts.
// Facet lookups degrade to an empty set instead of failing.
func (h *DiscoveryHandler) ListTags(c echo.Context) error {
	result, err := h.resolver.Resolve(c.Request().Context(), discovery.Filter{})
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"tags": []string{}})
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": discovery.CollectTags(result.Posts)})
}

// ListCategories returns the category facet
func (h *DiscoveryHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"categories": h.facets.ListCategories()})
}

// ListAuthors returns the author facet
func (h *DiscoveryHandler) ListAuthors(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"authors": h.facets.ListAuthors()})
}
