package service

import (
	"context"
	"errors"
	"strings"

	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/shared"

	"gorm.io/gorm"
)

// Profile is everything the profile page shows.
type Profile struct {
	User           *models.User
	IsSelf         bool
	IsFollowing    bool
	FollowersCount int64
	FollowingCount int64
	Reviews        []models.Review

	// the viewer's own follow list, used for the unfollow list and to mark search hits
	ViewerFollowing []models.User
	FollowingIDs    map[string]bool

	SearchQuery   string
	SearchResults []repository.UserSummary
}

type ProfileService interface {
	Load(ctx context.Context, viewer *shared.Actor, username, userQuery string) (*Profile, error)
	Apply(ctx context.Context, viewer *shared.Actor, username string, form dto.ProfileActionForm) error
}

type profileService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	follows    FollowService
	search     SearchService
}

func NewProfileService(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	follows FollowService,
	search SearchService,
) ProfileService {
	return &profileService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		follows:    follows,
		search:     search,
	}
}

func (s *profileService) owner(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Load assembles the profile of username as seen by viewer. userQuery is
// only honoured on the viewer's own profile.
func (s *profileService) Load(ctx context.Context, viewer *shared.Actor, username, userQuery string) (*Profile, error) {
	if viewer == nil {
		return nil, ErrAnonymousActor
	}

	user, err := s.owner(ctx, username)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		User:   user,
		IsSelf: viewer.Is(user.ID),
	}

	if !p.IsSelf {
		if p.IsFollowing, err = s.follows.IsFollowing(ctx, viewer.UserID, user.ID); err != nil {
			return nil, err
		}
	}
	if p.FollowersCount, err = s.follows.FollowersCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = s.follows.FollowingCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if p.Reviews, err = s.reviewRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, err
	}

	if p.ViewerFollowing, err = s.follows.Following(ctx, viewer.UserID); err != nil {
		return nil, err
	}
	p.FollowingIDs = make(map[string]bool, len(p.ViewerFollowing))
	for _, u := range p.ViewerFollowing {
		p.FollowingIDs[u.ID] = true
	}

	if p.IsSelf {
		p.SearchQuery = strings.TrimSpace(userQuery)
		if p.SearchResults, err = s.search.SearchUsers(ctx, viewer, p.SearchQuery, ProfileSearchLimit); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Apply performs a follow action posted to the profile of username.
func (s *profileService) Apply(ctx context.Context, viewer *shared.Actor, username string, form dto.ProfileActionForm) error {
	if viewer == nil {
		return ErrAnonymousActor
	}

	user, err := s.owner(ctx, username)
	if err != nil {
		return err
	}

	if viewer.Is(user.ID) {
		switch {
		case form.UnfollowUsername != "":
			return s.follows.Unfollow(ctx, viewer, form.UnfollowUsername)
		case form.FollowUsername != "":
			return s.follows.Follow(ctx, viewer, form.FollowUsername)
		}
		return nil
	}

	switch form.Action {
	case "follow":
		return s.follows.Follow(ctx, viewer, user.Username)
	case "unfollow":
		return s.follows.Unfollow(ctx, viewer, user.Username)
	}

	following, err := s.follows.IsFollowing(ctx, viewer.UserID, user.ID)
	if err != nil {
		return err
	}
	if following {
		return s.follows.Unfollow(ctx, viewer, user.Username)
	}
	return s.follows.Follow(ctx, viewer, user.Username)
}
