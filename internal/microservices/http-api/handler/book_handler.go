package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/validation"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/add/", middleware.RequireLogin(), h.New)
	rg.POST("/add/", middleware.RequireLogin(), h.Create)
	rg.GET("/:book_id/", h.Detail)
}

// Detail shows a book with its reviews and rating summary.
func (h *BookHandler) Detail(c *gin.Context) {
	bookID, ok := idParam(c, "book_id")
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	detail, err := h.svc.Detail(ctx, bookID)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "book.html", gin.H{
		"Title":        detail.Book.Title,
		"Detail":       detail,
		"ReviewedByMe": detail.ReviewedBy(middleware.ActorFrom(c).ID()),
	})
}

func (h *BookHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "book_create.html", gin.H{"Title": "Add a book", "Form": dto.BookForm{}})
}

// Create handles the multipart book form. The cover is optional.
func (h *BookHandler) Create(c *gin.Context) {
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	var cover *multipart.FileHeader
	if fh, err := c.FormFile("cover_image"); err == nil {
		cover = fh
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		c.String(http.StatusBadRequest, "malformed upload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	book, err := h.svc.Create(ctx, form, cover)
	if err != nil {
		if ve, ok := validation.As(err); ok {
			render(c, http.StatusOK, "book_create.html", gin.H{"Title": "Add a book", "Form": form, "Errors": ve})
			return
		}
		fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, bookURL(book.ID))
}
