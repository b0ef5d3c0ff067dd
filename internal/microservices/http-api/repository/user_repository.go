package repository

import (
	"context"
	"time"

	"litreview/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserSummary is a user row annotated with its activity counts.
type UserSummary struct {
	models.User
	ReviewCount    int64 `json:"review_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, query, excludeID string, limit int) ([]UserSummary, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	// return nil on error so a zero-value user is never mistaken for a hit
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists matches case-insensitively.
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailExists matches case-insensitively.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search matches query as a case-insensitive substring of username, first
// name or last name. excludeID (if set) is left out; limit <= 0 means no cap.
func (r *userRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]UserSummary, error) {
	var rows []UserSummary
	if err := userSearchQuery(r.db.WithContext(ctx), query, excludeID, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func userSearchQuery(db *gorm.DB, query, excludeID string, limit int) *gorm.DB {
	p := containsPattern(query)
	q := db.Model(&models.User{}).
		Select(`users.*,
			(SELECT COUNT(*) FROM reviews WHERE reviews.user_id = users.id) AS review_count,
			(SELECT COUNT(*) FROM user_following uf WHERE uf.following_id = users.id) AS followers_count,
			(SELECT COUNT(*) FROM user_following uf WHERE uf.user_id = users.id) AS following_count`).
		Where("(users.username ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ?)", p, p, p)
	if excludeID != "" {
		q = q.Where("users.id <> ?", excludeID)
	}
	q = q.Order("users.username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}
