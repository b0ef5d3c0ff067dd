package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"litreview/internal/config"
	"litreview/internal/logging"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/shared"
	"litreview/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	aliceToken = "alice-token"
	testCSRF   = "csrf-test-token"
)

var alice = &shared.Actor{UserID: "u-alice", Username: "alice"}

type testApp struct {
	cfg      *config.Config
	router   *gin.Engine
	auth     *MockAuthService
	feed     *MockFeedService
	search   *MockSearchService
	books    *MockBookService
	reviews  *MockReviewService
	profiles *MockProfileService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logging.Init(logging.Config{Level: "disabled", Format: "json", Output: io.Discard})

	tmpl, err := web.Templates()
	require.NoError(t, err)

	app := &testApp{
		cfg: &config.Config{
			GoEnv:            "test",
			JWTSecret:        strings.Repeat("s", 32),
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
			LoginRedirect:    "/users/{username}/",
			FeedFallbackMode: "recent",
			FeedLimit:        10,
			UploadMaxBytes:   1 << 20,
		},
		auth:     new(MockAuthService),
		feed:     new(MockFeedService),
		search:   new(MockSearchService),
		books:    new(MockBookService),
		reviews:  new(MockReviewService),
		profiles: new(MockProfileService),
	}

	app.auth.On("ValidateToken", mock.Anything, aliceToken).
		Return(&service.Claims{UserID: alice.UserID, Username: alice.Username}, nil).Maybe()

	app.router = NewRouter(app.cfg, tmpl, Services{
		Auth:     app.auth,
		Feed:     app.feed,
		Search:   app.search,
		Books:    app.books,
		Reviews:  app.reviews,
		Profiles: app.profiles,
	}, nil)
	return app
}

// do serves a request; a non-empty token is sent as a bearer credential.
// Forms carry a matching CSRF cookie and field, as a browser would.
func (a *testApp) do(method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		signed := url.Values{middleware.CSRFField: {testCSRF}}
		for k, v := range form {
			signed[k] = v
		}
		body = strings.NewReader(signed.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: middleware.CSRFCookie, Value: testCSRF})
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(target, token string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, token, nil)
}

func (a *testApp) post(target, token string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, target, token, form)
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}
