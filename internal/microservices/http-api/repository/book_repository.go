package repository

import (
	"context"
	"fmt"

	"litreview/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// BookSummary is a book row annotated with its review aggregates.
// AverageRating is nil when the book has no reviews.
type BookSummary struct {
	models.Book
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Stats(ctx context.Context, id int64) (*float64, int64, error)
	SearchByTitle(ctx context.Context, query string) ([]BookSummary, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM will populate book.ID and book.CreatedAt
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Stats returns the average rating (nil without reviews) and the review count.
func (r *bookRepository) Stats(ctx context.Context, id int64) (*float64, int64, error) {
	var agg struct {
		Average *float64
		Total   int64
	}
	if err := bookStatsQuery(r.db.WithContext(ctx), id).Scan(&agg).Error; err != nil {
		return nil, 0, err
	}
	return agg.Average, agg.Total, nil
}

func bookStatsQuery(db *gorm.DB, id int64) *gorm.DB {
	// AVG over zero rows is NULL, which keeps Average nil
	return db.Model(&models.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("book_id = ?", id)
}

// SearchByTitle performs a case-insensitive substring match on title.
func (r *bookRepository) SearchByTitle(ctx context.Context, query string) ([]BookSummary, error) {
	var rows []BookSummary
	if err := bookSearchQuery(r.db.WithContext(ctx), query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("search books by title: %w", err)
	}
	return rows, nil
}

func bookSearchQuery(db *gorm.DB, query string) *gorm.DB {
	return db.Model(&models.Book{}).
		Select("books.*, AVG(reviews.rating) AS average_rating, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.book_id = books.id").
		Where("books.title ILIKE ?", containsPattern(query)).
		Group("books.id").
		Order("books.title ASC")
}
