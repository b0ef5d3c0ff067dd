package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"litreview/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	CSRFCookie = "csrftoken"
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRF-Token"

	csrfKey      = "csrf_token"
	csrfTokenTTL = 365 * 24 * time.Hour
)

var (
	ErrCSRFTokenMissing = errors.New("CSRF token missing")
	ErrCSRFTokenInvalid = errors.New("CSRF token invalid")
)

// CSRF guards cookie-authenticated form posts with a double-submit token.
// The token lives in an HttpOnly cookie and must come back in the
// csrf_token form field or the X-CSRF-Token header. Safe methods and
// bearer-authenticated requests pass through. onFail renders the rejection;
// the chain is aborted afterwards.
func CSRF(cfg *config.Config, onFail func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(CSRFCookie)
		token := cookie
		if token == "" {
			token = newCSRFToken()
			setCookie(c, cfg, CSRFCookie, token, csrfTokenTTL)
		}
		c.Set(csrfKey, token)

		if isSafeMethod(c.Request.Method) || bearerToken(c) != "" {
			c.Next()
			return
		}

		if err := checkCSRF(c, cookie); err != nil {
			onFail(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func checkCSRF(c *gin.Context, cookie string) error {
	submitted := c.GetHeader(CSRFHeader)
	if submitted == "" {
		submitted = c.PostForm(CSRFField)
	}
	if cookie == "" || submitted == "" {
		return ErrCSRFTokenMissing
	}
	if subtle.ConstantTimeCompare([]byte(cookie), []byte(submitted)) != 1 {
		return ErrCSRFTokenInvalid
	}
	return nil
}

// CSRFTokenFrom returns the token forms must echo back.
func CSRFTokenFrom(c *gin.Context) string {
	return c.GetString(csrfKey)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func newCSRFToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
