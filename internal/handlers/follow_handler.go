package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// FollowHandler handles author-follow requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// RegisterFollowRoutes registers follow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/authors/:id/follow", h.FollowAuthor)
	g.DELETE("/authors/:id/follow", h.UnfollowAuthor)
	g.GET("/authors/:id/follow", h.GetFollowStatus)
}

func (h *FollowHandler) authorID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID")
	}
	return uint(id), nil
}

// FollowAuthor subscribes the user to an author's new posts
func (h *FollowHandler) FollowAuthor(c echo.Context) error {
	userID := currentUserID(c)
	authorID, err := h.authorID(c)
	if err != nil {
		return err
	}
	if authorID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(authorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Author not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	follow := &models.Follow{FollowerID: userID, AuthorID: authorID}
	if err := h.followRepository.Follow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"author_id": authorID, "following": true})
}

// UnfollowAuthor removes the subscription. A missing follow row is a no-op.
func (h *FollowHandler) UnfollowAuthor(c echo.Context) error {
	userID := currentUserID(c)
	authorID, err := h.authorID(c)
	if err != nil {
		return err
	}

	if err := h.followRepository.Unfollow(userID, authorID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"author_id": authorID, "following": false})
}

// GetFollowStatus reports whether the user follows the author
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	userID := currentUserID(c)
	authorID, err := h.authorID(c)
	if err != nil {
		return err
	}

	following, err := h.followRepository.IsFollowing(userID, authorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"author_id": authorID, "following": following})
}
