package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"litreview/internal/config"
	"litreview/internal/logging"
	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/shared"
	"litreview/internal/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	toProfile := middleware.RedirectIfAuthenticated(func(a *shared.Actor) string {
		return "/users/" + a.Username + "/"
	})
	toLanding := middleware.RedirectIfAuthenticated(func(a *shared.Actor) string {
		return h.cfg.LoginRedirectFor(a.Username)
	})

	r.GET("/signup/", toProfile, h.SignupPage)
	r.POST("/signup/", toProfile, h.Signup)
	r.GET("/login/", toLanding, h.LoginPage)
	r.POST("/login/", toLanding, h.Login)
	r.GET("/logout/", h.LogoutPage)
	r.POST("/logout/", h.Logout)

	ajax := r.Group("/ajax")
	ajax.GET("/username-available/", h.UsernameAvailable)
	ajax.GET("/email-available/", h.EmailAvailable)
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up", "Form": dto.SignupForm{}})
}

// Signup creates the account and shows a success page. It does not log the user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form dto.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.authService.Register(ctx, form)
	if err != nil {
		errs, ok := validation.As(err)
		switch {
		case ok:
		case errors.Is(err, service.ErrNameInUse):
			errs = validation.New()
			errs.Add("username", "A user with that username already exists.")
		case errors.Is(err, service.ErrEmailInUse):
			errs = validation.New()
			errs.Add("email", "A user with that email already exists.")
		default:
			fail(c, err)
			return
		}
		form.Password1, form.Password2 = "", ""
		render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up", "Form": form, "Errors": errs})
		return
	}

	logging.Ctx(c.Request.Context()).Info().Str("user_id", user.ID).Msg("account created")
	render(c, http.StatusOK, "signup_success.html", gin.H{"Title": "Welcome", "Username": user.Username})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	next, _ := safeNext(c.Query("next"))
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Form": dto.LoginForm{}, "Next": next})
}

// Login sets the session cookies and redirects to a safe ?next= or the
// configured landing page.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}
	next, hasNext := safeNext(c.PostForm("next"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	accessToken, refreshToken, user, err := h.authService.Login(ctx, form)
	if err != nil {
		errs, ok := validation.As(err)
		switch {
		case ok:
		case errors.Is(err, service.ErrInvalidCredentials):
			errs = validation.New()
			errs.AddNonField("Please enter a correct username and password. Note that both fields may be case-sensitive.")
		default:
			fail(c, err)
			return
		}
		form.Password = ""
		render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Form": form, "Next": next, "Errors": errs})
		return
	}

	middleware.SetSessionCookies(c, h.cfg, accessToken, refreshToken)

	target := h.cfg.LoginRedirectFor(user.Username)
	if hasNext {
		target = next
	}
	c.Redirect(http.StatusSeeOther, target)
}

// LogoutPage asks for confirmation; the session survives a GET.
func (h *AuthHandler) LogoutPage(c *gin.Context) {
	render(c, http.StatusOK, "logout.html", gin.H{"Title": "Log out"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	refreshToken, _ := c.Cookie(middleware.RefreshCookie)
	if err := h.authService.Logout(ctx, middleware.ClaimsFrom(c), refreshToken); err != nil {
		// the cookies are cleared regardless
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("logout cleanup failed")
	}
	middleware.ClearSessionCookies(c, h.cfg)

	c.Redirect(http.StatusSeeOther, "/logout/")
}

// UsernameAvailable answers the signup form's live check. It always returns 200.
func (h *AuthHandler) UsernameAvailable(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	username := strings.TrimSpace(c.Query("username"))
	available, err := h.authService.UsernameAvailable(ctx, username)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("username availability check failed")
		available = false
	}
	c.JSON(http.StatusOK, dto.UsernameAvailability{Available: available, Username: username})
}

func (h *AuthHandler) EmailAvailable(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	email := strings.TrimSpace(c.Query("email"))
	available, err := h.authService.EmailAvailable(ctx, email)
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("email availability check failed")
		available = false
	}
	c.JSON(http.StatusOK, dto.EmailAvailability{Available: available, Email: email})
}
