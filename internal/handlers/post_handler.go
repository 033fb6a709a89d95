package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mahinuzzaman/pulsefeed/internal/dataaccess"
	"github.com/mahinuzzaman/pulsefeed/internal/middleware"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	data *dataaccess.Service
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(data *dataaccess.Service) *PostHandler {
	return &PostHandler{data: data}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post owned by the current user. Content is validated
// before any store call; the created post comes back with its author
// embedded, so the caller can render it without another fetch.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.data.CreatePost(c.Request().Context(), userID, req.Content)
	if err != nil {
		if errors.Is(err, dataaccess.ErrEmptyContent) {
			return echo.NewHTTPError(http.StatusBadRequest, "Post must not be empty")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes one of the current user's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	postID := c.Param("id")

	err := h.data.DeletePost(c.Request().Context(), postID, userID)
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, dataaccess.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not the owner of this post")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}
	return c.NoContent(http.StatusNoContent)
}
