package handler

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"litreview/internal/config"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Feed     service.FeedService
	Search   service.SearchService
	Books    service.BookService
	Reviews  service.ReviewService
	Profiles service.ProfileService
}

// NewRouter builds the engine with every page, the ajax checks, uploaded
// media and the liveness check. ping may be nil.
func NewRouter(cfg *config.Config, tmpl *template.Template, svc Services, ping func(context.Context) error) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = cfg.UploadMaxBytes

	r.Use(middleware.RequestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		serverError(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	}))
	r.Use(middleware.Authenticate(svc.Auth, cfg))
	r.Use(middleware.CSRF(cfg, forbidden))

	r.GET("/check-conn", func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MediaPath != "" {
		r.Static("/media", cfg.MediaPath)
	}

	NewFeedHandler(svc.Feed).RegisterRoutes(r)
	NewSearchHandler(svc.Search).RegisterRoutes(r)
	NewAuthHandler(svc.Auth, cfg).RegisterRoutes(r)

	books := r.Group("/books")
	NewBookHandler(svc.Books).RegisterRoutes(books)
	NewReviewHandler(svc.Reviews, svc.Books).RegisterRoutes(books)

	NewProfileHandler(svc.Profiles).RegisterRoutes(r.Group("/users"))

	r.NoRoute(NotFound)

	return r
}
