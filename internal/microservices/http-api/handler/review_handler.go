package handler

import (
	"context"
	"net/http"

	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/middleware"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/validation"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviews service.ReviewService
	books   service.BookService
}

func NewReviewHandler(reviews service.ReviewService, books service.BookService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, books: books}
}

// RegisterRoutes mounts the review pages under /books. Every route needs a session.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/:book_id/reviews", middleware.RequireLogin())
	reviews.GET("/add/", h.New)
	reviews.POST("/add/", h.Create)
	reviews.GET("/:review_id/edit/", h.Edit)
	reviews.POST("/:review_id/edit/", h.Update)
	reviews.GET("/:review_id/delete/", h.ConfirmDelete)
	reviews.POST("/:review_id/delete/", h.Delete)
}

func reviewIDs(c *gin.Context) (bookID, reviewID int64, ok bool) {
	if bookID, ok = idParam(c, "book_id"); !ok {
		return 0, 0, false
	}
	if reviewID, ok = idParam(c, "review_id"); !ok {
		return 0, 0, false
	}
	return bookID, reviewID, true
}

func renderReviewForm(c *gin.Context, page string, book *models.Book, review *models.Review, form dto.ReviewForm, errs *validation.Errors) {
	render(c, http.StatusOK, page, gin.H{
		"Title":   "Review " + book.Title,
		"Book":    book,
		"Review":  review,
		"Form":    form,
		"Ratings": dto.RatingChoices(),
		"Errors":  errs,
	})
}

func (h *ReviewHandler) New(c *gin.Context) {
	bookID, ok := idParam(c, "book_id")
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	book, err := h.books.Get(ctx, bookID)
	if err != nil {
		fail(c, err)
		return
	}
	renderReviewForm(c, "review_create.html", book, nil, dto.ReviewForm{}, nil)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	bookID, ok := idParam(c, "book_id")
	if !ok {
		NotFound(c)
		return
	}

	var form dto.ReviewForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := h.reviews.Create(ctx, middleware.ActorFrom(c), bookID, form); err != nil {
		if ve, ok := validation.As(err); ok {
			book, err := h.books.Get(ctx, bookID)
			if err != nil {
				fail(c, err)
				return
			}
			renderReviewForm(c, "review_create.html", book, nil, form, ve)
			return
		}
		fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, bookURL(bookID))
}

func (h *ReviewHandler) Edit(c *gin.Context) {
	bookID, reviewID, ok := reviewIDs(c)
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	review, err := h.reviews.GetOwned(ctx, middleware.ActorFrom(c), bookID, reviewID)
	if err != nil {
		fail(c, err)
		return
	}
	renderReviewForm(c, "review_edit.html", &review.Book, review, dto.ReviewFormFrom(review), nil)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	bookID, reviewID, ok := reviewIDs(c)
	if !ok {
		NotFound(c)
		return
	}

	var form dto.ReviewForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	review, err := h.reviews.Update(ctx, middleware.ActorFrom(c), bookID, reviewID, form)
	if err != nil {
		if ve, ok := validation.As(err); ok && review != nil {
			renderReviewForm(c, "review_edit.html", &review.Book, review, form, ve)
			return
		}
		fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, bookURL(bookID))
}

// ConfirmDelete only renders the confirmation page; nothing is removed on GET.
func (h *ReviewHandler) ConfirmDelete(c *gin.Context) {
	bookID, reviewID, ok := reviewIDs(c)
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	review, err := h.reviews.GetOwned(ctx, middleware.ActorFrom(c), bookID, reviewID)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "review_delete.html", gin.H{
		"Title":  "Delete review",
		"Book":   &review.Book,
		"Review": review,
	})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	bookID, reviewID, ok := reviewIDs(c)
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.reviews.Delete(ctx, middleware.ActorFrom(c), bookID, reviewID); err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, bookURL(bookID))
}
