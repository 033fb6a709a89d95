package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mahinuzzaman/pulsefeed/internal/feed"
	"github.com/mahinuzzaman/pulsefeed/internal/middleware"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	aggregator *feed.Aggregator
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(aggregator *feed.Aggregator) *FeedHandler {
	return &FeedHandler{aggregator: aggregator}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the enriched feed for the current viewer. A failed load
// degrades to an empty feed; the error is logged, not surfaced.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID := middleware.UserIDFromContext(c)

	posts, err := h.aggregator.LoadFeed(c.Request().Context(), viewerID)
	if err != nil {
		log.Printf("feed: load failed for viewer %s: %v", viewerID, err)
		posts = []feed.EnrichedPost{}
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}
