package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"litreview/internal/config"
	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Register(ctx context.Context, form dto.SignupForm) (*models.User, error) {
	panic("unexpected call")
}

func (m *mockAuth) Login(ctx context.Context, form dto.LoginForm) (string, string, *models.User, error) {
	panic("unexpected call")
}

func (m *mockAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (string, *service.Claims, error) {
	args := m.Called(ctx, refreshToken)
	var claims *service.Claims
	if c := args.Get(1); c != nil {
		claims = c.(*service.Claims)
	}
	return args.String(0), claims, args.Error(2)
}

func (m *mockAuth) ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, claims *service.Claims, refreshToken string) error {
	panic("unexpected call")
}

func (m *mockAuth) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	panic("unexpected call")
}

func (m *mockAuth) EmailAvailable(ctx context.Context, email string) (bool, error) {
	panic("unexpected call")
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       strings.Repeat("s", 32),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

// newEngine mounts /whoami behind handlers; it echoes the actor or "anonymous".
func newEngine(auth service.AuthService, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(auth, testConfig()))
	handlers = append(handlers, func(c *gin.Context) {
		if actor := ActorFrom(c); actor != nil {
			c.String(http.StatusOK, actor.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/whoami", handlers...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_Anonymous(t *testing.T) {
	auth := new(mockAuth)

	w := serve(newEngine(auth), httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, "anonymous", w.Body.String())
	auth.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
}

func TestAuthenticate_BearerToken(t *testing.T) {
	auth := new(mockAuth)
	auth.On("ValidateToken", mock.Anything, "tok").Return(&service.Claims{UserID: "u1", Username: "alice"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := serve(newEngine(auth), req)

	assert.Equal(t, "alice", w.Body.String())
}

func TestAuthenticate_BadBearerStaysAnonymous(t *testing.T) {
	auth := new(mockAuth)
	auth.On("ValidateToken", mock.Anything, "bad").Return(nil, service.ErrInvalidToken)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer bad")
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "r1"})
	w := serve(newEngine(auth), req)

	assert.Equal(t, "anonymous", w.Body.String())
	auth.AssertNotCalled(t, "RefreshAccessToken", mock.Anything, mock.Anything)
}

func TestAuthenticate_SilentRefresh(t *testing.T) {
	auth := new(mockAuth)
	auth.On("ValidateToken", mock.Anything, "expired").Return(nil, service.ErrExpiredToken)
	auth.On("RefreshAccessToken", mock.Anything, "r1").
		Return("fresh", &service.Claims{UserID: "u1", Username: "alice"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "expired"})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "r1"})
	w := serve(newEngine(auth), req)

	assert.Equal(t, "alice", w.Body.String())
	var access *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == AccessCookie {
			access = c
		}
	}
	require.NotNil(t, access)
	assert.Equal(t, "fresh", access.Value)
	assert.True(t, access.HttpOnly)
	auth.AssertExpectations(t)
}

func TestAuthenticate_RevokedRefreshClearsCookies(t *testing.T) {
	auth := new(mockAuth)
	auth.On("RefreshAccessToken", mock.Anything, "gone").Return("", nil, service.ErrInvalidToken)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "gone"})
	w := serve(newEngine(auth), req)

	assert.Equal(t, "anonymous", w.Body.String())
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), "\n"), RefreshCookie+"=;")
}

func TestRequireLogin(t *testing.T) {
	auth := new(mockAuth)
	auth.On("ValidateToken", mock.Anything, "tok").Return(&service.Claims{UserID: "u1", Username: "alice"}, nil)
	r := newEngine(auth, RequireLogin())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/whoami?x=1", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fwhoami%3Fx%3D1", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestRedirectIfAuthenticated(t *testing.T) {
	auth := new(mockAuth)
	auth.On("ValidateToken", mock.Anything, "tok").Return(&service.Claims{UserID: "u1", Username: "alice"}, nil)
	r := newEngine(auth, RedirectIfAuthenticated(func(a *shared.Actor) string {
		return "/users/" + a.Username + "/"
	}))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := serve(r, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/alice/", w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestActorFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ActorFrom(c))
	assert.Nil(t, ClaimsFrom(c))

	SetActor(c, &shared.Actor{UserID: "u1", Username: "alice"})
	assert.True(t, ActorFrom(c).Is("u1"))
}
