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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	aggregator *feed.Aggregator
	data       *dataaccess.Service
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(aggregator *feed.Aggregator, data *dataaccess.Service) *CommentHandler {
	return &CommentHandler{aggregator: aggregator, data: data}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetPostComments)
}

// CreateComment adds a comment and returns the re-fetched comment list for
// the post, oldest first
func (h *CommentHandler) CreateComment(c echo.Context) error {
	viewerID := middleware.UserIDFromContext(c)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comments, err := h.aggregator.AddComment(viewerID, postID, req.Content)
	if err != nil {
		if errors.Is(err, dataaccess.ErrEmptyContent) {
			return echo.NewHTTPError(http.StatusBadRequest, "Comment must not be empty")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add comment")
	}
	return c.JSON(http.StatusCreated, echo.Map{"comments": comments, "count": len(comments)})
}

// GetPostComments lists a post's comments oldest-first, degrading to an
// empty list if the fetch fails
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	postID := c.Param("post_id")

	comments, err := h.data.GetPostComments(postID)
	if err != nil {
		log.Printf("comments: fetch failed for post %s: %v", postID, err)
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments, "count": len(comments)})
}
