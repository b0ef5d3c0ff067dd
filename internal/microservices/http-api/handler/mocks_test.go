package handler

import (
	"context"
	"mime/multipart"

	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/shared"

	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, form dto.SignupForm) (*models.User, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, form dto.LoginForm) (string, string, *models.User, error) {
	args := m.Called(ctx, form)
	var user *models.User
	if u := args.Get(2); u != nil {
		user = u.(*models.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, *service.Claims, error) {
	args := m.Called(ctx, refreshToken)
	var claims *service.Claims
	if c := args.Get(1); c != nil {
		claims = c.(*service.Claims)
	}
	return args.String(0), claims, args.Error(2)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *service.Claims, refreshToken string) error {
	args := m.Called(ctx, claims, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) ComposeFeed(ctx context.Context, viewer *shared.Actor, mode service.FeedMode) (*service.Feed, error) {
	args := m.Called(ctx, viewer, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Feed), args.Error(1)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, actor *shared.Actor, query string) (*service.SearchResult, error) {
	args := m.Called(ctx, actor, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockSearchService) SearchUsers(ctx context.Context, actor *shared.Actor, query string, limit int) ([]repository.UserSummary, error) {
	args := m.Called(ctx, actor, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserSummary), args.Error(1)
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Create(ctx context.Context, form dto.BookForm, cover *multipart.FileHeader) (*models.Book, error) {
	args := m.Called(ctx, form, cover)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, bookID int64) (*models.Book, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Detail(ctx context.Context, bookID int64) (*service.BookDetail, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookDetail), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, actor *shared.Actor, bookID int64, form dto.ReviewForm) (*models.Review, error) {
	args := m.Called(ctx, actor, bookID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) GetOwned(ctx context.Context, actor *shared.Actor, bookID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, actor, bookID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor *shared.Actor, bookID, reviewID int64, form dto.ReviewForm) (*models.Review, error) {
	args := m.Called(ctx, actor, bookID, reviewID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor *shared.Actor, bookID, reviewID int64) error {
	args := m.Called(ctx, actor, bookID, reviewID)
	return args.Error(0)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Load(ctx context.Context, viewer *shared.Actor, username, userQuery string) (*service.Profile, error) {
	args := m.Called(ctx, viewer, username, userQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *MockProfileService) Apply(ctx context.Context, viewer *shared.Actor, username string, form dto.ProfileActionForm) error {
	args := m.Called(ctx, viewer, username, form)
	return args.Error(0)
}
