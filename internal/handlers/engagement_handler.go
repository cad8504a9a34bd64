package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/engagement"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// EngagementHandler exposes the engagement ledger over HTTP
type EngagementHandler struct {
	ledger           *engagement.Ledger
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	notificationRepo repositories.NotificationRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(
	ledger *engagement.Ledger,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) *EngagementHandler {
	return &EngagementHandler{
		ledger:           ledger,
		postRepository:   postRepo,
		userRepository:   userRepo,
		notificationRepo: notificationRepo,
	}
}

// RegisterPublicEngagementRoutes registers the routes anonymous readers can hit
func (h *EngagementHandler) RegisterPublicEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/view", h.RecordView)
	g.GET("/posts/:post_id/engagement", h.GetEngagement)
}

// RegisterEngagementRoutes registers the authenticated engagement routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
}

// RecordView registers one visit of a post. The increment runs detached so
// the response never waits on it; a failure is dropped, never retried.
func (h *EngagementHandler) RecordView(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.ledger.RecordView(context.Background(), postID)

	return c.NoContent(http.StatusAccepted)
}

// ToggleLike flips the caller's like state for a post and reports the new
// state with the re-derived count. A store failure is surfaced so the client
// can roll back its optimistic heart icon.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	postID := c.Param("post_id")
	userID := currentUserID(c)

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result, err := h.ledger.ToggleLike(c.Request().Context(), postID, userID)
	if err != nil {
		if errors.Is(err, engagement.ErrAuthRequired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to like posts")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the author about a new like. Notification creation belongs to
	// this layer, not the ledger.
	if result.Liked && post.AuthorID != userID {
		h.notifyLike(post, userID)
	}

	return c.JSON(http.StatusOK, result)
}

// GetEngagement returns the authoritative counters for a post
func (h *EngagementHandler) GetEngagement(c echo.Context) error {
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	counts := h.ledger.Summary(c.Request().Context(), postID, currentUserID(c), post.ViewCount)
	return c.JSON(http.StatusOK, counts)
}

func (h *EngagementHandler) notifyLike(post *models.Post, actorID uint) {
	actorName := "Someone"
	if actor, err := h.userRepository.GetUserByID(actorID); err == nil && actor.DisplayName != "" {
		actorName = actor.DisplayName
	}
	notification := &models.Notification{
		Type:        "like",
		ActorID:     actorID,
		RecipientID: post.AuthorID,
		TargetID:    post.ID.Hex(),
		TargetType:  "post",
		Message:     fmt.Sprintf("%s liked your post \"%s\"", actorName, post.Title),
	}
	if err := h.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("failed to create like notification for post %s: %v", post.ID.Hex(), err)
	}
}
