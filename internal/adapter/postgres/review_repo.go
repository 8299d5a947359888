package postgres

import (
	"context"

	"hbnb/internal/domain"
)

const reviewColumns = "id, text, rating, place_id, user_id, created_at, updated_at"

func scanReview(row rowScanner) (*domain.Review, error) {
	var r domain.Review
	if err := row.Scan(&r.ID, &r.Text, &r.Rating, &r.PlaceID, &r.UserID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// AddReview inserts a review. A second review of a place by the same user
// returns domain.ErrDuplicateReview.
func (d *DB) AddReview(ctx context.Context, r *domain.Review) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO reviews ("+reviewColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		r.ID, r.Text, r.Rating, r.PlaceID, r.UserID, r.CreatedAt, r.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReview
	}
	return err
}

// GetReview retrieves a review by ID.
func (d *DB) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return scanReview(d.sql.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id))
}

// ListReviews returns all reviews, oldest first.
func (d *DB) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return d.listReviews(ctx, "SELECT "+reviewColumns+" FROM reviews ORDER BY created_at, id")
}

// ListReviewsByPlace returns the reviews of a place.
func (d *DB) ListReviewsByPlace(ctx context.Context, placeID string) ([]domain.Review, error) {
	return d.listReviews(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE place_id = $1 ORDER BY created_at, id", placeID)
}

// ListReviewsByUser returns the reviews written by a user.
func (d *DB) ListReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return d.listReviews(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE user_id = $1 ORDER BY created_at, id", userID)
}

func (d *DB) listReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateReview overwrites a review's text and rating.
func (d *DB) UpdateReview(ctx context.Context, r *domain.Review) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE reviews SET text = $2, rating = $3, updated_at = $4 WHERE id = $1",
		r.ID, r.Text, r.Rating, r.UpdatedAt,
	)
	return expectOne(res, err)
}

// DeleteReview removes a review by ID.
func (d *DB) DeleteReview(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id)
	return expectOne(res, err)
}
