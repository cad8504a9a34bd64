package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
	"github.com/openquill/inkwell/backend/pkg/search"
)

// PostHandler handles HTTP requests related to authoring posts
type PostHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	categoryRepo     repositories.CategoryRepository
	followRepository repositories.FollowRepository
	notificationRepo repositories.NotificationRepository
	searchIndex      *search.Index
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	followRepo repositories.FollowRepository,
	notificationRepo repositories.NotificationRepository,
	searchIndex *search.Index,
) *PostHandler {
	return &PostHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		categoryRepo:     categoryRepo,
		followRepository: followRepo,
		notificationRepo: notificationRepo,
		searchIndex:      searchIndex,
	}
}

// RegisterPostRoutes registers the authenticated authoring routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/me/posts", h.GetOwnPosts)
	g.PUT("/admin/posts/:id/published", h.SetPublished)
}

// CreatePost creates a new post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := currentUserID(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID:         userID,
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		Tags:             req.Tags,
		Published:        req.Published,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if len(req.CategoryIDs) > 0 {
		if err := h.categoryRepo.SetPostCategories(post.ID.Hex(), req.CategoryIDs); err != nil {
			log.Printf("failed to assign categories for post %s: %v", post.ID.Hex(), err)
		}
	}

	h.reindex(post)
	if post.Published {
		h.notifyFollowers(post)
	}

	return c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post. Only the author may edit it.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := currentUserID(c)
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existingPost.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	wasPublished := existingPost.Published

	if req.Title != "" {
		existingPost.Title = req.Title
	}
	if req.Content != "" {
		existingPost.Content = req.Content
	}
	if req.Excerpt != "" {
		existingPost.Excerpt = req.Excerpt
	}
	if req.FeaturedImageURL != "" {
		existingPost.FeaturedImageURL = req.FeaturedImageURL
	}
	if req.Tags != nil {
		existingPost.Tags = req.Tags
	}
	if req.Published != nil {
		existingPost.Published = *req.Published
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, existingPost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.CategoryIDs != nil {
		if err := h.categoryRepo.SetPostCategories(postID, req.CategoryIDs); err != nil {
			log.Printf("failed to assign categories for post %s: %v", postID, err)
		}
	}

	h.reindex(existingPost)
	if !wasPublished && existingPost.Published {
		h.notifyFollowers(existingPost)
	}

	return c.JSON(http.StatusOK, existingPost)
}

// DeletePost deletes a post. Only the author or an admin may delete it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := currentUserID(c)
	postID := c.Param("id")

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existingPost.AuthorID != userID && !h.isAdmin(userID) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.categoryRepo.RemovePostCategories(postID); err != nil {
		log.Printf("failed to clear categories for post %s: %v", postID, err)
	}
	if err := h.searchIndex.RemovePost(postID); err != nil {
		log.Printf("failed to remove post %s from search index: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOwnPosts lists the authenticated user's posts, drafts included
func (h *PostHandler) GetOwnPosts(c echo.Context) error {
	userID := currentUserID(c)

	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), userID, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// SetPublished flips the publication flag of any post. Admin only; the check
// happens here, before the core operation, never inside it.
func (h *PostHandler) SetPublished(c echo.Context) error {
	userID := currentUserID(c)
	if !h.isAdmin(userID) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	postID := c.Param("id")
	var req struct {
		Published bool `json:"published"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.postRepository.SetPublished(c.Request().Context(), postID, req.Published); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err == nil {
		h.reindex(post)
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "published": req.Published})
}

func (h *PostHandler) isAdmin(userID uint) bool {
	user, err := h.userRepository.GetUserByID(userID)
	return err == nil && user.IsAdmin
}

// reindex keeps the text index in step with the store. Best effort: discovery
// degrades gracefully when the index lags, so an indexing failure only logs.
func (h *PostHandler) reindex(post *models.Post) {
	if err := h.searchIndex.IndexPost(post); err != nil {
		log.Printf("failed to index post %s: %v", post.ID.Hex(), err)
	}
}

// notifyFollowers fans out a new-post notification to the author's followers
func (h *PostHandler) notifyFollowers(post *models.Post) {
	followerIDs, err := h.followRepository.GetFollowerIDs(post.AuthorID)
	if err != nil {
		log.Printf("failed to load followers of author %d: %v", post.AuthorID, err)
		return
	}

	authorName := "An author you follow"
	if author, err := h.userRepository.GetUserByID(post.AuthorID); err == nil && author.DisplayName != "" {
		authorName = author.DisplayName
	}

	for _, followerID := range followerIDs {
		notification := &models.Notification{
			Type:        "follow",
			ActorID:     post.AuthorID,
			RecipientID: followerID,
			TargetID:    post.ID.Hex(),
			TargetType:  "post",
			Message:     fmt.Sprintf("%s published a new post \"%s\"", authorName, post.Title),
		}
		if err := h.notificationRepo.CreateNotification(notification); err != nil {
			log.Printf("failed to notify follower %d: %v", followerID, err)
		}
	}
}
