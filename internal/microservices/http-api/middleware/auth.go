package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"litreview/internal/config"
	"litreview/internal/logging"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/shared"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	actorKey  = "actor"
	claimsKey = "claims"
)

// Authenticate resolves the current actor from the Authorization header or
// the session cookie. An expired access token is silently renewed from the
// refresh cookie. Requests without a valid session continue anonymously.
func Authenticate(authService service.AuthService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if claims := authenticate(ctx, c, authService, cfg); claims != nil {
			c.Set(claimsKey, claims)
			c.Set(actorKey, &shared.Actor{UserID: claims.UserID, Username: claims.Username})
		}

		c.Next()
	}
}

func authenticate(ctx context.Context, c *gin.Context, authService service.AuthService, cfg *config.Config) *service.Claims {
	if token := bearerToken(c); token != "" {
		claims, err := authService.ValidateToken(ctx, token)
		if err != nil {
			return nil
		}
		return claims
	}

	if token, err := c.Cookie(AccessCookie); err == nil && token != "" {
		if claims, err := authService.ValidateToken(ctx, token); err == nil {
			return claims
		}
	}

	refresh, err := c.Cookie(RefreshCookie)
	if err != nil || refresh == "" {
		return nil
	}
	access, claims, err := authService.RefreshAccessToken(ctx, refresh)
	if err != nil {
		logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("session refresh failed")
		ClearSessionCookies(c, cfg)
		return nil
	}
	setCookie(c, cfg, AccessCookie, access, cfg.AccessTokenTTL)
	return claims
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireLogin sends anonymous requests to the login page, remembering where they were going.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFrom(c) == nil {
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in actors to target(actor).
func RedirectIfAuthenticated(target func(*shared.Actor) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := ActorFrom(c); actor != nil {
			c.Redirect(http.StatusFound, target(actor))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom returns the request's actor, or nil when anonymous.
func ActorFrom(c *gin.Context) *shared.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(*shared.Actor); ok {
			return actor
		}
	}
	return nil
}

// ClaimsFrom returns the validated access-token claims, if any.
func ClaimsFrom(c *gin.Context) *service.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}

// SetActor marks the request as made by actor.
func SetActor(c *gin.Context, actor *shared.Actor) {
	c.Set(actorKey, actor)
}

func setCookie(c *gin.Context, cfg *config.Config, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", cfg.CookieSecure, true)
}

// SetSessionCookies stores both tokens as HttpOnly cookies.
func SetSessionCookies(c *gin.Context, cfg *config.Config, accessToken, refreshToken string) {
	setCookie(c, cfg, AccessCookie, accessToken, cfg.AccessTokenTTL)
	setCookie(c, cfg, RefreshCookie, refreshToken, cfg.RefreshTokenTTL)
}

func ClearSessionCookies(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", cfg.CookieSecure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", cfg.CookieSecure, true)
}
