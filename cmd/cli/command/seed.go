package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"litreview/database"
	"litreview/internal/middleware/auth"
	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/models"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/validation"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type demoUser struct {
	Username, FirstName, LastName string
	Follows                       []string
}

type demoReview struct {
	Author, Headline, Body string
	Rating                 int
}

type demoBook struct {
	Title, Description string
	Reviews            []demoReview
}

var demoUsers = []demoUser{
	{Username: "alice", FirstName: "Alice", LastName: "Liddell", Follows: []string{"bob", "carol"}},
	{Username: "bob", FirstName: "Bob", LastName: "Cratchit", Follows: []string{"alice"}},
	{Username: "carol", FirstName: "Carol", LastName: "Danvers"},
}

var demoBooks = []demoBook{
	{
		Title:       "Dune",
		Description: "A desert planet, a noble family and the spice that holds an empire together.",
		Reviews: []demoReview{
			{Author: "bob", Headline: "Worth the slow start", Body: "The first hundred pages drag, then it never lets go.", Rating: 5},
			{Author: "carol", Headline: "Dense but rewarding", Body: "Keep the glossary open.", Rating: 4},
		},
	},
	{
		Title:       "The Left Hand of Darkness",
		Description: "An envoy on a frozen world where nobody has a fixed gender.",
		Reviews: []demoReview{
			{Author: "alice", Headline: "Quietly radical", Body: "The journey across the ice is unforgettable.", Rating: 5},
		},
	},
	{
		Title:       "Piranesi",
		Description: "A man lives in an endless house of statues and tides.",
		Reviews: []demoReview{
			{Author: "carol", Headline: "Strange and lovely", Body: "Read it in one sitting.", Rating: 4},
			{Author: "bob", Headline: "Not for me", Body: "Beautiful sentences, but I wanted more plot.", Rating: 2},
		},
	},
}

func demoEmail(username string) string {
	return username + "@example.com"
}

// demoSignup is the signup form each demo user would have submitted.
func demoSignup(u demoUser, password string) dto.SignupForm {
	return dto.SignupForm{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     demoEmail(u.Username),
		Password1: password,
		Password2: password,
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, follows, books and reviews",
	Long: `Load a small demo data set. Users that already exist are reused and books
that already exist keep their reviews, so running seed twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		for _, u := range demoUsers {
			if err := validation.Validate(demoSignup(u, password)); err != nil {
				return describeSignupError(err)
			}
		}

		_, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		s := &seeder{
			users:   repository.NewUserRepository(db),
			follows: repository.NewFollowRepository(db),
			books:   repository.NewBookRepository(db),
			reviews: repository.NewReviewRepository(db),
		}
		stats, err := s.run(ctx, password)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		fmt.Println("✓ Demo data loaded.")
		fmt.Printf("Users: %d new | Follows: %d new | Books: %d new | Reviews: %d new\n",
			stats.users, stats.follows, stats.books, stats.reviews)
		return nil
	},
}

type seedStats struct {
	users, follows, books, reviews int
}

type seeder struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	books   repository.BookRepository
	reviews repository.ReviewRepository
}

func (s *seeder) run(ctx context.Context, password string) (seedStats, error) {
	var stats seedStats

	hash, err := auth.HashPassword(password)
	if err != nil {
		return stats, err
	}

	ids := make(map[string]string, len(demoUsers))
	for _, u := range demoUsers {
		existing, err := s.users.FindByUsername(ctx, u.Username)
		if err == nil {
			ids[u.Username] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, fmt.Errorf("look up user %s: %w", u.Username, err)
		}

		user := &models.User{
			ID:        uuid.New().String(),
			Username:  u.Username,
			Email:     demoEmail(u.Username),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Password:  hash,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return stats, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		ids[u.Username] = user.ID
		stats.users++
	}

	for _, u := range demoUsers {
		for _, target := range u.Follows {
			added, err := s.follows.Add(ctx, ids[u.Username], ids[target])
			if err != nil {
				return stats, fmt.Errorf("follow %s -> %s: %w", u.Username, target, err)
			}
			if added {
				stats.follows++
			}
		}
	}

	for _, b := range demoBooks {
		exists, err := s.bookExists(ctx, b.Title)
		if err != nil {
			return stats, err
		}
		if exists {
			continue
		}

		description := b.Description
		book := &models.Book{Title: b.Title, Description: &description}
		if err := s.books.Create(ctx, book); err != nil {
			return stats, fmt.Errorf("create book %q: %w", b.Title, err)
		}
		stats.books++

		for _, r := range b.Reviews {
			review := &models.Review{
				BookID:   book.ID,
				UserID:   ids[r.Author],
				Headline: r.Headline,
				Body:     r.Body,
				Rating:   r.Rating,
			}
			if err := s.reviews.Create(ctx, review); err != nil {
				return stats, fmt.Errorf("review %q by %s: %w", b.Title, r.Author, err)
			}
			stats.reviews++
		}
	}

	return stats, nil
}

func (s *seeder) bookExists(ctx context.Context, title string) (bool, error) {
	matches, err := s.books.SearchByTitle(ctx, title)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if strings.EqualFold(m.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("password", "p", "reading4fun", "Password given to every demo user")
}
