package handler

import (
	"context"
	"net/http"

	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	svc service.FeedService
}

func NewFeedHandler(svc service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

func (h *FeedHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/recent-reviews/", middleware.RequireLogin(), h.RecentReviews)
}

// Home shows the feed picked by ?feed=.
func (h *FeedHandler) Home(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	feed, err := h.svc.ComposeFeed(ctx, middleware.ActorFrom(c), service.FeedMode(c.Query("feed")))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{"Title": "Home", "Feed": feed})
}

// RecentReviews lists the top rated reviews.
func (h *FeedHandler) RecentReviews(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	feed, err := h.svc.ComposeFeed(ctx, middleware.ActorFrom(c), service.FeedTrending)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "recent_reviews.html", gin.H{"Title": "Top rated reviews", "Reviews": feed.Reviews})
}
