package service

import (
	"context"

	"litreview/internal/config"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/shared"
)

type FeedMode string

const (
	FeedFollowing FeedMode = "following"
	FeedRecent    FeedMode = "recent"
	FeedTrending  FeedMode = "trending"
)

// ParseFeedMode returns the mode named by s and whether it is known.
func ParseFeedMode(s string) (FeedMode, bool) {
	switch m := FeedMode(s); m {
	case FeedFollowing, FeedRecent, FeedTrending:
		return m, true
	default:
		return "", false
	}
}

// Feed is an ordered list of reviews with their authors and books loaded.
type Feed struct {
	Mode    FeedMode
	Reviews []models.Review
}

type FeedService interface {
	ComposeFeed(ctx context.Context, viewer *shared.Actor, mode FeedMode) (*Feed, error)
}

type feedService struct {
	reviewRepo repository.ReviewRepository
	fallback   FeedMode
	limit      int
}

func NewFeedService(reviewRepo repository.ReviewRepository, cfg *config.Config) FeedService {
	fallback, ok := ParseFeedMode(cfg.FeedFallbackMode)
	if !ok || fallback == FeedFollowing {
		fallback = FeedRecent
	}
	limit := cfg.FeedLimit
	if limit < 1 {
		limit = 10
	}
	return &feedService{
		reviewRepo: reviewRepo,
		fallback:   fallback,
		limit:      limit,
	}
}

// resolve picks the mode actually served. Anonymous viewers always get the
// fallback; signed-in viewers get what they asked for, or following.
func (s *feedService) resolve(viewer *shared.Actor, mode FeedMode) FeedMode {
	if viewer == nil {
		return s.fallback
	}
	if m, ok := ParseFeedMode(string(mode)); ok {
		return m
	}
	return FeedFollowing
}

// ComposeFeed is read-only. Following nobody yields an empty feed.
func (s *feedService) ComposeFeed(ctx context.Context, viewer *shared.Actor, mode FeedMode) (*Feed, error) {
	resolved := s.resolve(viewer, mode)

	var (
		reviews []models.Review
		err     error
	)
	switch resolved {
	case FeedFollowing:
		reviews, err = s.reviewRepo.FollowingFeed(ctx, viewer.UserID)
	case FeedTrending:
		reviews, err = s.reviewRepo.Trending(ctx, s.limit)
	default:
		reviews, err = s.reviewRepo.Recent(ctx, s.limit)
	}
	if err != nil {
		return nil, err
	}

	if reviews == nil {
		reviews = []models.Review{}
	}
	return &Feed{Mode: resolved, Reviews: reviews}, nil
}
