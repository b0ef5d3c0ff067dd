package service

import (
	"context"
	"errors"
	"strings"

	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/shared"
	"litreview/internal/validation"

	"gorm.io/gorm"
)

// ErrReviewNotFound also covers a review that belongs to someone else or to another book.
var ErrReviewNotFound = errors.New("review not found")

type ReviewService interface {
	Create(ctx context.Context, actor *shared.Actor, bookID int64, form dto.ReviewForm) (*models.Review, error)
	GetOwned(ctx context.Context, actor *shared.Actor, bookID, reviewID int64) (*models.Review, error)
	Update(ctx context.Context, actor *shared.Actor, bookID, reviewID int64, form dto.ReviewForm) (*models.Review, error)
	Delete(ctx context.Context, actor *shared.Actor, bookID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

func normalize(form dto.ReviewForm) dto.ReviewForm {
	form.Headline = strings.TrimSpace(form.Headline)
	form.Rating = strings.TrimSpace(form.Rating)
	return form
}

// Create posts a review by actor on an existing book.
func (s *reviewService) Create(ctx context.Context, actor *shared.Actor, bookID int64, form dto.ReviewForm) (*models.Review, error) {
	if actor == nil {
		return nil, ErrAnonymousActor
	}

	// Check if book exists
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	form = normalize(form)
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	review := &models.Review{
		BookID:   bookID,
		UserID:   actor.UserID,
		Headline: form.Headline,
		Body:     form.Body,
		Rating:   form.RatingValue(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetOwned finds reviewID on bookID authored by actor.
func (s *reviewService) GetOwned(ctx context.Context, actor *shared.Actor, bookID, reviewID int64) (*models.Review, error) {
	if actor == nil {
		return nil, ErrReviewNotFound
	}
	review, err := s.reviewRepo.GetOwned(ctx, actor.UserID, bookID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Update changes headline, body and rating only. Ownership is checked
// before the form is validated.
func (s *reviewService) Update(ctx context.Context, actor *shared.Actor, bookID, reviewID int64, form dto.ReviewForm) (*models.Review, error) {
	review, err := s.GetOwned(ctx, actor, bookID, reviewID)
	if err != nil {
		return nil, err
	}

	form = normalize(form)
	if err := validation.Validate(form); err != nil {
		return review, err
	}

	review.Headline = form.Headline
	review.Body = form.Body
	review.Rating = form.RatingValue()
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the review in a single owner- and book-scoped statement.
func (s *reviewService) Delete(ctx context.Context, actor *shared.Actor, bookID, reviewID int64) error {
	if actor == nil {
		return ErrReviewNotFound
	}
	deleted, err := s.reviewRepo.DeleteOwned(ctx, actor.UserID, bookID, reviewID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReviewNotFound
	}
	return nil
}
