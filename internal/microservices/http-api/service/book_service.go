package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"litreview/internal/config"
	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookNotFound = errors.New("book not found")

// coverField is the form field carrying the cover upload.
const coverField = "cover_image"

var coverExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// BookDetail is a book with its reviews (newest first) and rating aggregates.
type BookDetail struct {
	Book          *models.Book
	Reviews       []models.Review
	AverageRating *float64
	ReviewCount   int64
}

type BookService interface {
	Create(ctx context.Context, form dto.BookForm, cover *multipart.FileHeader) (*models.Book, error)
	Get(ctx context.Context, bookID int64) (*models.Book, error)
	Detail(ctx context.Context, bookID int64) (*BookDetail, error)
}

type bookService struct {
	bookRepo       repository.BookRepository
	reviewRepo     repository.ReviewRepository
	mediaPath      string
	uploadMaxBytes int64
}

func NewBookService(bookRepo repository.BookRepository, reviewRepo repository.ReviewRepository, cfg *config.Config) BookService {
	return &bookService{
		bookRepo:       bookRepo,
		reviewRepo:     reviewRepo,
		mediaPath:      cfg.MediaPath,
		uploadMaxBytes: cfg.UploadMaxBytes,
	}
}

// Create validates the form, stores the optional cover and inserts the book.
func (s *bookService) Create(ctx context.Context, form dto.BookForm, cover *multipart.FileHeader) (*models.Book, error) {
	form.Title = strings.TrimSpace(form.Title)

	errs := validation.New()
	if err := validation.Validate(form); err != nil {
		ve, ok := validation.As(err)
		if !ok {
			return nil, err
		}
		errs = ve
	}
	if cover != nil {
		if msg := s.checkCover(cover); msg != "" {
			errs.Add(coverField, msg)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:       form.Title,
		Description: form.DescriptionPtr(),
	}
	if cover != nil {
		rel, err := s.saveCover(cover)
		if err != nil {
			return nil, err
		}
		book.CoverImage = &rel
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if book.CoverImage != nil {
			_ = os.Remove(filepath.Join(s.mediaPath, filepath.FromSlash(*book.CoverImage)))
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) checkCover(cover *multipart.FileHeader) string {
	const invalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

	ext := strings.ToLower(filepath.Ext(cover.Filename))
	if !coverExtensions[ext] {
		return invalidImage
	}
	if cover.Size > s.uploadMaxBytes {
		return fmt.Sprintf("Ensure the file is at most %d bytes.", s.uploadMaxBytes)
	}
	if !isImage(cover) {
		return invalidImage
	}
	return ""
}

// isImage sniffs the upload's leading bytes; the filename is not trusted.
func isImage(cover *multipart.FileHeader) bool {
	src, err := cover.Open()
	if err != nil {
		return false
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mtype.String(), "image/")
}

// saveCover writes the upload under MEDIA_PATH/covers and returns the
// slash-separated path relative to MEDIA_PATH.
func (s *bookService) saveCover(cover *multipart.FileHeader) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(cover.Filename))
	dir := filepath.Join(s.mediaPath, "covers")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cover dir: %w", err)
	}

	src, err := cover.Open()
	if err != nil {
		return "", fmt.Errorf("open cover upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write cover file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("write cover file: %w", err)
	}

	return path.Join("covers", name), nil
}

func (s *bookService) Get(ctx context.Context, bookID int64) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) Detail(ctx context.Context, bookID int64) (*BookDetail, error) {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.bookRepo.Stats(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &BookDetail{
		Book:          book,
		Reviews:       reviews,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

// ReviewedBy reports whether userID already has a review on this book.
func (d *BookDetail) ReviewedBy(userID string) bool {
	if d == nil || userID == "" {
		return false
	}
	for _, r := range d.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
