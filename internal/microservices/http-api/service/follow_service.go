package service

import (
	"context"
	"errors"

	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/shared"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAnonymousActor = errors.New("authentication required")
)

// FollowService mutates and reads the directed follow graph.
// Follow and Unfollow are idempotent single-statement writes.
type FollowService interface {
	Follow(ctx context.Context, actor *shared.Actor, targetUsername string) error
	Unfollow(ctx context.Context, actor *shared.Actor, targetUsername string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	FollowersCount(ctx context.Context, userID string) (int64, error)
	FollowingCount(ctx context.Context, userID string) (int64, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
}

type followService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) FollowService {
	return &followService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// Follow adds actor -> target. Following yourself, an unknown user, or
// someone already followed changes nothing and is not an error.
func (s *followService) Follow(ctx context.Context, actor *shared.Actor, targetUsername string) error {
	if actor == nil {
		return ErrAnonymousActor
	}

	target, err := s.lookup(ctx, targetUsername)
	if err != nil || target == nil {
		return err
	}
	if actor.Is(target.ID) {
		return nil
	}

	_, err = s.followRepo.Add(ctx, actor.UserID, target.ID)
	return err
}

// Unfollow removes actor -> target; a missing edge or user is a no-op.
func (s *followService) Unfollow(ctx context.Context, actor *shared.Actor, targetUsername string) error {
	if actor == nil {
		return ErrAnonymousActor
	}

	target, err := s.lookup(ctx, targetUsername)
	if err != nil || target == nil {
		return err
	}

	return s.followRepo.Remove(ctx, actor.UserID, target.ID)
}

// lookup returns nil, nil for an unknown username.
func (s *followService) lookup(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, nil
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	if followerID == "" || followedID == "" {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, followedID)
}

func (s *followService) FollowersCount(ctx context.Context, userID string) (int64, error) {
	return s.followRepo.CountFollowers(ctx, userID)
}

func (s *followService) FollowingCount(ctx context.Context, userID string) (int64, error) {
	return s.followRepo.CountFollowing(ctx, userID)
}

// Following lists the users userID follows, ordered by username.
func (s *followService) Following(ctx context.Context, userID string) ([]models.User, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}
