package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mahinuzzaman/pulsefeed/internal/dataaccess"
	"github.com/mahinuzzaman/pulsefeed/internal/feed"
	"github.com/mahinuzzaman/pulsefeed/internal/middleware"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	aggregator *feed.Aggregator
	data       *dataaccess.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(aggregator *feed.Aggregator, data *dataaccess.Service) *UserHandler {
	return &UserHandler{aggregator: aggregator, data: data}
}

// RegisterProfileRoutes registers profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.GET("/users/:id", h.GetUserProfile)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.PUT("/users/me", h.UpdateProfile)
}

// GetOwnProfile returns the current user's profile with their enriched posts
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.aggregator.LoadProfile(c.Request().Context(), userID, userID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUserProfile returns another user's profile row
func (h *UserHandler) GetUserProfile(c echo.Context) error {
	user, err := h.data.GetUserProfile(c.Param("id"))
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserPosts lists one user's posts newest-first, degrading to an empty
// list if the fetch fails
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	userID := c.Param("id")

	posts, err := h.data.GetUserPosts(c.Request().Context(), userID)
	if err != nil {
		log.Printf("posts: fetch failed for user %s: %v", userID, err)
		posts = []models.Post{}
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// UpdateProfile applies a partial update to the current user's profile and
// returns the updated row
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.data.UpdateUserProfile(userID, req); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	user, err := h.data.GetUserProfile(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load updated profile")
	}
	return c.JSON(http.StatusOK, user)
}
