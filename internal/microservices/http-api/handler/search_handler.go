package handler

import (
	"context"
	"net/http"

	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	svc service.SearchService
}

func NewSearchHandler(svc service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

func (h *SearchHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/search/", h.Search)
}

func (h *SearchHandler) Search(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := h.svc.Search(ctx, middleware.ActorFrom(c), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "search.html", gin.H{
		"Title":  "Search",
		"Query":  result.Query,
		"Result": result,
	})
}
