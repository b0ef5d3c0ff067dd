package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"litreview/internal/logging"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/validation"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds every store call made while serving a request.
const requestTimeout = 5 * time.Second

// render executes the page template name. Every page shares the header, so
// Actor, Title, Query and Errors are always present.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Actor"]; !ok {
		data["Actor"] = middleware.ActorFrom(c)
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = (*validation.Errors)(nil)
	}
	data["CSRFToken"] = middleware.CSRFTokenFrom(c)
	c.HTML(status, name, data)
}

// NotFound renders the 404 page. It doubles as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Not found"})
}

// forbidden rejects a form post whose CSRF token is missing or wrong.
func forbidden(c *gin.Context, err error) {
	logging.Ctx(c.Request.Context()).Warn().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("form post rejected")
	render(c, http.StatusForbidden, "403.html", gin.H{"Title": "Forbidden"})
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	logging.Ctx(c.Request.Context()).Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Server error"})
}

// fail maps a service error onto a response.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrUserNotFound):
		NotFound(c)
	case errors.Is(err, service.ErrAnonymousActor):
		c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	default:
		serverError(c, err)
	}
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func bookURL(bookID int64) string {
	return "/books/" + strconv.FormatInt(bookID, 10) + "/"
}

// safeNext returns next when it is a path on this site.
func safeNext(next string) (string, bool) {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "", false
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return next, true
}
