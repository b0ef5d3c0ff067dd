package service

import (
	"context"
	"strings"

	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/shared"
)

// ProfileSearchLimit caps the "find people" box on a user's own profile.
const ProfileSearchLimit = 25

type SearchResult struct {
	Query string
	Users []repository.UserSummary
	Books []repository.BookSummary
}

type SearchService interface {
	Search(ctx context.Context, actor *shared.Actor, query string) (*SearchResult, error)
	SearchUsers(ctx context.Context, actor *shared.Actor, query string, limit int) ([]repository.UserSummary, error)
}

type searchService struct {
	userRepo repository.UserRepository
	bookRepo repository.BookRepository
}

func NewSearchService(userRepo repository.UserRepository, bookRepo repository.BookRepository) SearchService {
	return &searchService{
		userRepo: userRepo,
		bookRepo: bookRepo,
	}
}

// Search matches users (signed-in actors only) and books by substring.
// A blank query matches nothing.
func (s *searchService) Search(ctx context.Context, actor *shared.Actor, query string) (*SearchResult, error) {
	result := &SearchResult{
		Query: strings.TrimSpace(query),
		Users: []repository.UserSummary{},
		Books: []repository.BookSummary{},
	}
	if result.Query == "" {
		return result, nil
	}

	users, err := s.SearchUsers(ctx, actor, result.Query, 0)
	if err != nil {
		return nil, err
	}
	if users != nil {
		result.Users = users
	}

	books, err := s.bookRepo.SearchByTitle(ctx, result.Query)
	if err != nil {
		return nil, err
	}
	if books != nil {
		result.Books = books
	}

	return result, nil
}

// SearchUsers excludes the actor and returns nothing for anonymous callers.
// limit <= 0 means no cap.
func (s *searchService) SearchUsers(ctx context.Context, actor *shared.Actor, query string, limit int) ([]repository.UserSummary, error) {
	query = strings.TrimSpace(query)
	if actor == nil || query == "" {
		return []repository.UserSummary{}, nil
	}
	return s.userRepo.Search(ctx, query, actor.UserID, limit)
}
