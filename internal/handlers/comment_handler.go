package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	notificationRepo  repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		notificationRepo:  notificationRepo,
	}
}

// RegisterPublicCommentRoutes registers the anonymous-readable comment routes
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/comments", h.GetCommentsForPost)
}

// RegisterCommentRoutes registers the authenticated comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetCommentsForPost lists the comments on a post, oldest first
func (h *CommentHandler) GetCommentsForPost(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// CreateComment adds a comment to a post and notifies its author
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := currentUserID(c)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.AuthorID != userID {
		h.notifyComment(post, userID)
	}

	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment deletes a comment. Only its author may remove it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := currentUserID(c)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) notifyComment(post *models.Post, actorID uint) {
	actorName := "Someone"
	if actor, err := h.userRepository.GetUserByID(actorID); err == nil && actor.DisplayName != "" {
		actorName = actor.DisplayName
	}
	notification := &models.Notification{
		Type:        "comment",
		ActorID:     actorID,
		RecipientID: post.AuthorID,
		TargetID:    post.ID.Hex(),
		TargetType:  "post",
		Message:     fmt.Sprintf("%s commented on your post \"%s\"", actorName, post.Title),
	}
	if err := h.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("failed to create comment notification for post %s: %v", post.ID.Hex(), err)
	}
}
