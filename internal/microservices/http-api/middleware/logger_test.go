package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"litreview/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info", Format: "json"}) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/books/:id/", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/books/9/", nil)
	req.Header.Set("X-Request-ID", "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-7", w.Header().Get("X-Request-ID"))
	line := buf.String()
	assert.Contains(t, line, `"level":"warn"`)
	assert.Contains(t, line, `"status":404`)
	assert.Contains(t, line, `"path":"/books/9/"`)
	assert.Contains(t, line, `"request_id":"req-7"`)
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
