package handler

import (
	"context"
	"net/http"
	"net/url"

	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:username/", middleware.RequireLogin(), h.Show)
	rg.POST("/:username/", middleware.RequireLogin(), h.Act)
}

// Show renders a profile. ?user_query= searches people on your own profile.
func (h *ProfileHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	profile, err := h.svc.Load(ctx, middleware.ActorFrom(c), c.Param("username"), c.Query("user_query"))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{
		"Title":   profile.User.Username,
		"Profile": profile,
	})
}

// Act applies a follow or unfollow and returns to the profile.
func (h *ProfileHandler) Act(c *gin.Context) {
	var form dto.ProfileActionForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	username := c.Param("username")
	if err := h.svc.Apply(ctx, middleware.ActorFrom(c), username, form); err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/users/"+url.PathEscape(username)+"/")
}
