package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func sampleReview() models.Review {
	return models.Review{
		ID:        7,
		BookID:    3,
		UserID:    "u-bob",
		Headline:  "A slow burn",
		Body:      "Worth it.",
		Rating:    4,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		User:      models.User{ID: "u-bob", Username: "bob"},
		Book:      models.Book{ID: 3, Title: "Dune"},
	}
}

func TestHome_AnonymousGetsFallback(t *testing.T) {
	app := newTestApp(t)
	app.feed.On("ComposeFeed", mock.Anything, (*shared.Actor)(nil), service.FeedMode("")).
		Return(&service.Feed{Mode: service.FeedRecent, Reviews: []models.Review{sampleReview()}}, nil)

	w := app.get("/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A slow burn")
	assert.Contains(t, w.Body.String(), "Dune")
	assert.Contains(t, w.Body.String(), "Log in")
	app.feed.AssertExpectations(t)
}

func TestHome_PassesRequestedMode(t *testing.T) {
	app := newTestApp(t)
	app.feed.On("ComposeFeed", mock.Anything, alice, service.FeedTrending).
		Return(&service.Feed{Mode: service.FeedTrending, Reviews: []models.Review{}}, nil)

	w := app.get("/?feed=trending", aliceToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Top rated reviews")
	assert.Contains(t, w.Body.String(), "/users/alice/")
	app.feed.AssertExpectations(t)
}

func TestHome_EmptyFollowingFeed(t *testing.T) {
	app := newTestApp(t)
	app.feed.On("ComposeFeed", mock.Anything, alice, service.FeedMode("")).
		Return(&service.Feed{Mode: service.FeedFollowing, Reviews: []models.Review{}}, nil)

	w := app.get("/", aliceToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No reviews yet from people you follow")
}

func TestHome_StoreFailure(t *testing.T) {
	app := newTestApp(t)
	app.feed.On("ComposeFeed", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	w := app.get("/", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRecentReviews_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/recent-reviews/", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Frecent-reviews%2F", w.Header().Get("Location"))
	app.feed.AssertNotCalled(t, "ComposeFeed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecentReviews_ShowsTrending(t *testing.T) {
	app := newTestApp(t)
	app.feed.On("ComposeFeed", mock.Anything, alice, service.FeedTrending).
		Return(&service.Feed{Mode: service.FeedTrending, Reviews: []models.Review{sampleReview()}}, nil)

	w := app.get("/recent-reviews/", aliceToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A slow burn")
}

func TestSearch_RendersUsersAndBooks(t *testing.T) {
	app := newTestApp(t)
	avg := 4.5
	app.search.On("Search", mock.Anything, alice, "du").Return(&service.SearchResult{
		Query: "du",
		Users: []repository.UserSummary{{User: models.User{ID: "u-dune", Username: "dunefan"}}},
		Books: []repository.BookSummary{{Book: models.Book{ID: 3, Title: "Dune"}, AverageRating: &avg, ReviewCount: 2}},
	}, nil)

	w := app.get("/search/?q=du", aliceToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dunefan")
	assert.Contains(t, w.Body.String(), "/books/3/")
	assert.Contains(t, w.Body.String(), `value="du"`)
}

func TestSearch_BlankQuery(t *testing.T) {
	app := newTestApp(t)
	app.search.On("Search", mock.Anything, (*shared.Actor)(nil), "").
		Return(&service.SearchResult{Users: []repository.UserSummary{}, Books: []repository.BookSummary{}}, nil)

	w := app.get("/search/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	app.search.AssertExpectations(t)
}
