package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mahinuzzaman/pulsefeed/internal/dataaccess"
	"github.com/mahinuzzaman/pulsefeed/internal/feed"
	"github.com/mahinuzzaman/pulsefeed/internal/middleware"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	aggregator *feed.Aggregator
	data       *dataaccess.Service
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(aggregator *feed.Aggregator, data *dataaccess.Service) *LikeHandler {
	return &LikeHandler{aggregator: aggregator, data: data}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.GET("/posts/:post_id/likes", h.GetPostLikes)
}

// ToggleLike flips the viewer's like on a post. The aggregator applies the
// change optimistically and rolls it back if the mutation fails, so the
// returned state always matches what the viewer should see.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	viewerID := middleware.UserIDFromContext(c)
	postID := c.Param("post_id")

	state, err := h.aggregator.ToggleLike(viewerID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}
	return c.JSON(http.StatusOK, state)
}

// GetPostLikes lists all likes on a post, degrading to an empty list if the
// fetch fails
func (h *LikeHandler) GetPostLikes(c echo.Context) error {
	postID := c.Param("post_id")

	likes, err := h.data.GetPostLikes(postID)
	if err != nil {
		log.Printf("likes: fetch failed for post %s: %v", postID, err)
		likes = []models.Like{}
	}
	return c.JSON(http.StatusOK, echo.Map{"likes": likes, "count": len(likes)})
}
