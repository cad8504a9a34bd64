package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// SavedPostHandler handles bookmark requests
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	postRepository      repositories.PostRepository
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(savedPostRepo repositories.SavedPostRepository, postRepo repositories.PostRepository) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedPostRepo,
		postRepository:      postRepo,
	}
}

// RegisterSavedPostRoutes registers bookmark routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/bookmark", h.SavePost)
	g.DELETE("/posts/:post_id/bookmark", h.UnsavePost)
	g.GET("/posts/:post_id/bookmark", h.GetBookmarkStatus)
	g.GET("/me/bookmarks", h.GetSavedPosts)
}

// SavePost bookmarks a post for the authenticated user
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	userID := currentUserID(c)
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	savedPost := &models.SavedPost{UserID: userID, PostID: postID}
	if err := h.savedPostRepository.SavePost(savedPost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"post_id": postID, "saved": true})
}

// UnsavePost removes a bookmark. Removing a missing bookmark is a no-op.
func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	userID := currentUserID(c)
	postID := c.Param("post_id")

	if err := h.savedPostRepository.UnsavePost(userID, postID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "saved": false})
}

// GetBookmarkStatus reports whether the user bookmarked the post
func (h *SavedPostHandler) GetBookmarkStatus(c echo.Context) error {
	userID := currentUserID(c)
	postID := c.Param("post_id")

	saved, err := h.savedPostRepository.IsPostSaved(userID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "saved": saved})
}

// GetSavedPosts lists the user's bookmarks, most recent first
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	userID := currentUserID(c)

	saved, err := h.savedPostRepository.GetSavedPostsByUser(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"bookmarks": saved})
}
