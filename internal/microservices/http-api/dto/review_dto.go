package dto

import (
	"strconv"

	"litreview/internal/microservices/http-api/models"
)

// ReviewForm is the submitted review. Rating stays a string so an empty
// field is reported as missing instead of binding to 0.
type ReviewForm struct {
	Headline string `form:"headline" json:"headline" validate:"notblank,max=128"`
	Body     string `form:"body" json:"body" validate:"notblank,max=8192"`
	Rating   string `form:"rating" json:"rating" validate:"required,oneof=0 1 2 3 4 5"`
}

// RatingValue returns the parsed rating; call it only after validation.
func (f ReviewForm) RatingValue() int {
	n, _ := strconv.Atoi(f.Rating)
	return n
}

// ReviewFormFrom pre-fills the edit form with a stored review.
func ReviewFormFrom(r *models.Review) ReviewForm {
	return ReviewForm{
		Headline: r.Headline,
		Body:     r.Body,
		Rating:   strconv.Itoa(r.Rating),
	}
}

// RatingChoices lists the selectable ratings, lowest first.
func RatingChoices() []int {
	choices := make([]int, 0, models.MaxRating-models.MinRating+1)
	for i := models.MinRating; i <= models.MaxRating; i++ {
		choices = append(choices, i)
	}
	return choices
}
