package domain

import (
	"context"
	"strings"
)

// Review is a user's rating of a place.
type Review struct {
	Base
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	PlaceID string `json:"place_id"`
	UserID  string `json:"user_id"`
}

// NewReview validates the fields and builds a review.
func NewReview(text string, rating int, placeID, userID string) (*Review, error) {
	r := &Review{
		Base:    newBase(),
		Text:    text,
		Rating:  rating,
		PlaceID: placeID,
		UserID:  userID,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the review constraints.
func (r *Review) Validate() error {
	var err error
	if r.Text, err = requireText("text", r.Text, 0); err != nil {
		return err
	}
	if r.Rating < 1 || r.Rating > 5 {
		return invalid("rating", "must be between 1 and 5")
	}
	if strings.TrimSpace(r.PlaceID) == "" {
		return invalid("place_id", "is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return invalid("user_id", "is required")
	}
	return nil
}

// ReviewRepository defines the port for review persistence operations.
type ReviewRepository interface {
	AddReview(ctx context.Context, r *Review) error
	GetReview(ctx context.Context, id string) (*Review, error)
	ListReviews(ctx context.Context) ([]Review, error)
	ListReviewsByPlace(ctx context.Context, placeID string) ([]Review, error)
	ListReviewsByUser(ctx context.Context, userID string) ([]Review, error)
	UpdateReview(ctx context.Context, r *Review) error
	DeleteReview(ctx context.Context, id string) error
}
