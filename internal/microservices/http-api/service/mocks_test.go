package service

import (
	"context"
	"time"

	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/shared"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]repository.UserSummary, error) {
	args := m.Called(ctx, query, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserSummary), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenDenylist mocks the TokenDenylist interface
type MockTokenDenylist struct {
	mock.Mock
}

func (m *MockTokenDenylist) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockTokenDenylist) IsDenied(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// MockFollowRepository mocks the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Add(ctx context.Context, userID, followingID string) (bool, error) {
	args := m.Called(ctx, userID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Remove(ctx context.Context, userID, followingID string) error {
	args := m.Called(ctx, userID, followingID)
	return args.Error(0)
}

func (m *MockFollowRepository) Exists(ctx context.Context, userID, followingID string) (bool, error) {
	args := m.Called(ctx, userID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Stats(ctx context.Context, id int64) (*float64, int64, error) {
	args := m.Called(ctx, id)
	var avg *float64
	if v := args.Get(0); v != nil {
		avg = v.(*float64)
	}
	return avg, args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) SearchByTitle(ctx context.Context, query string) ([]repository.BookSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BookSummary), args.Error(1)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetOwned(ctx context.Context, userID string, bookID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, userID, bookID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) DeleteOwned(ctx context.Context, userID string, bookID, reviewID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID, reviewID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) reviews(args mock.Arguments) ([]models.Review, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	return m.reviews(m.Called(ctx, bookID))
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return m.reviews(m.Called(ctx, userID))
}

func (m *MockReviewRepository) Recent(ctx context.Context, limit int) ([]models.Review, error) {
	return m.reviews(m.Called(ctx, limit))
}

func (m *MockReviewRepository) Trending(ctx context.Context, limit int) ([]models.Review, error) {
	return m.reviews(m.Called(ctx, limit))
}

func (m *MockReviewRepository) FollowingFeed(ctx context.Context, viewerID string) ([]models.Review, error) {
	return m.reviews(m.Called(ctx, viewerID))
}

// MockFollowService mocks the FollowService interface
type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, actor *shared.Actor, targetUsername string) error {
	args := m.Called(ctx, actor, targetUsername)
	return args.Error(0)
}

func (m *MockFollowService) Unfollow(ctx context.Context, actor *shared.Actor, targetUsername string) error {
	args := m.Called(ctx, actor, targetUsername)
	return args.Error(0)
}

func (m *MockFollowService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowService) FollowersCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowService) FollowingCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowService) Following(ctx context.Context, userID string) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockSearchService mocks the SearchService interface
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, actor *shared.Actor, query string) (*SearchResult, error) {
	args := m.Called(ctx, actor, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SearchResult), args.Error(1)
}

func (m *MockSearchService) SearchUsers(ctx context.Context, actor *shared.Actor, query string, limit int) ([]repository.UserSummary, error) {
	args := m.Called(ctx, actor, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserSummary), args.Error(1)
}
