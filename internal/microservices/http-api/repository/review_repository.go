package repository

import (
	"context"
	"fmt"

	"litreview/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	GetOwned(ctx context.Context, userID string, bookID, reviewID int64) (*models.Review, error)
	DeleteOwned(ctx context.Context, userID string, bookID, reviewID int64) (bool, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Review, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	Recent(ctx context.Context, limit int) ([]models.Review, error)
	Trending(ctx context.Context, limit int) ([]models.Review, error)
	FollowingFeed(ctx context.Context, viewerID string) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create a new review
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// Update writes the editable columns only; author and book never change.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).
		Model(review).
		Select("headline", "body", "rating", "updated_at").
		Updates(review).Error; err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// GetOwned looks a review up scoped to its author and book.
// A review owned by someone else is indistinguishable from a missing one.
func (r *reviewRepository) GetOwned(ctx context.Context, userID string, bookID, reviewID int64) (*models.Review, error) {
	var review models.Review
	if err := ownedQuery(r.db.WithContext(ctx), userID, bookID, reviewID).
		Preload("Book").
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteOwned deletes in one statement and reports whether a row matched.
func (r *reviewRepository) DeleteOwned(ctx context.Context, userID string, bookID, reviewID int64) (bool, error) {
	result := ownedQuery(r.db.WithContext(ctx), userID, bookID, reviewID).Delete(&models.Review{})
	if result.Error != nil {
		return false, fmt.Errorf("delete review: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func ownedQuery(db *gorm.DB, userID string, bookID, reviewID int64) *gorm.DB {
	return db.Where("id = ? AND user_id = ? AND book_id = ?", reviewID, userID, bookID)
}

// ListByBook returns a book's reviews, newest first, with authors loaded.
func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list book reviews: %w", err)
	}
	return reviews, nil
}

// ListByUser returns a user's reviews, newest first, with books loaded.
func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Recent(ctx context.Context, limit int) ([]models.Review, error) {
	return r.feed(recentQuery(r.db.WithContext(ctx), limit))
}

func (r *reviewRepository) Trending(ctx context.Context, limit int) ([]models.Review, error) {
	return r.feed(trendingQuery(r.db.WithContext(ctx), limit))
}

func (r *reviewRepository) FollowingFeed(ctx context.Context, viewerID string) ([]models.Review, error) {
	return r.feed(followingFeedQuery(r.db.WithContext(ctx), viewerID))
}

func (r *reviewRepository) feed(q *gorm.DB) ([]models.Review, error) {
	var reviews []models.Review
	if err := q.Preload("User").Preload("Book").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return reviews, nil
}

func recentQuery(db *gorm.DB, limit int) *gorm.DB {
	return db.Model(&models.Review{}).
		Order("created_at DESC, id DESC").
		Limit(limit)
}

func trendingQuery(db *gorm.DB, limit int) *gorm.DB {
	return db.Model(&models.Review{}).
		Order("rating DESC, created_at DESC, id DESC").
		Limit(limit)
}

func followingFeedQuery(db *gorm.DB, viewerID string) *gorm.DB {
	return db.Model(&models.Review{}).
		Where("user_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("following_id").
			Where("user_id = ?", viewerID)).
		Order("created_at DESC, id DESC")
}
