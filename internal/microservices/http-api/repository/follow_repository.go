package repository

import (
	"context"
	"fmt"

	"litreview/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository stores the directed user_following edges.
type FollowRepository interface {
	Add(ctx context.Context, userID, followingID string) (bool, error)
	Remove(ctx context.Context, userID, followingID string) error
	Exists(ctx context.Context, userID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	ListFollowing(ctx context.Context, userID string) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Add inserts the edge if absent and reports whether a row was written.
func (r *followRepository) Add(ctx context.Context, userID, followingID string) (bool, error) {
	result := insertIfAbsent(r.db.WithContext(ctx)).
		Create(&models.Follow{UserID: userID, FollowingID: followingID})
	if result.Error != nil {
		return false, fmt.Errorf("add follow: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func insertIfAbsent(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{DoNothing: true})
}

// Remove deletes the edge; removing a missing edge is not an error.
func (r *followRepository) Remove(ctx context.Context, userID, followingID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Follow{}).Error; err != nil {
		return fmt.Errorf("remove follow: %w", err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, userID, followingID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListFollowing returns the users userID follows, ordered by username.
func (r *followRepository) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	if err := followingQuery(r.db.WithContext(ctx), userID).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

func followingQuery(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.User{}).
		Joins("JOIN user_following uf ON uf.following_id = users.id").
		Where("uf.user_id = ?", userID).
		Order("users.username ASC")
}
