package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterProfileRoutes registers the authenticated profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetOwnProfile)
	g.PUT("/me", h.UpdateProfile)
}

// RegisterPublicProfileRoutes registers the public author pages
func (h *UserHandler) RegisterPublicProfileRoutes(g *echo.Group) {
	g.GET("/authors/:id/profile", h.GetAuthorProfile)
}

// GetOwnProfile returns the authenticated user's profile
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's display name, bio and avatar
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// GetAuthorProfile returns an author's public profile with their published posts
func (h *UserHandler) GetAuthorProfile(c echo.Context) error {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID")
	}

	user, err := h.userRepository.GetUserByID(uint(authorID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Author not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), uint(authorID), false)
	if err != nil {
		posts = []models.Post{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"author": user.ToCompact(),
		"bio":    user.Bio,
		"posts":  posts,
	})
}
