// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"

	"hbnb/internal/domain"
)

// Repositories bundles the persistence ports the facade depends on.
type Repositories struct {
	Users     domain.UserRepository
	Places    domain.PlaceRepository
	Reviews   domain.ReviewRepository
	Amenities domain.AmenityRepository
}

// Facade centralizes repository access and enforces the rules that span
// more than one entity.
type Facade struct {
	users     domain.UserRepository
	places    domain.PlaceRepository
	reviews   domain.ReviewRepository
	amenities domain.AmenityRepository
}

// NewFacade creates a Facade backed by the given repositories.
func NewFacade(r Repositories) *Facade {
	return &Facade{
		users:     r.Users,
		places:    r.Places,
		reviews:   r.Reviews,
		amenities: r.Amenities,
	}
}

// --- Users ---

// UserInput carries the fields for a new user.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// UserPatch carries a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// CreateUser validates and stores a new user with a unique e-mail.
func (f *Facade) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	u, err := domain.NewUser(in.FirstName, in.LastName, in.Email, in.Password, in.IsAdmin)
	if err != nil {
		return nil, err
	}
	if err := f.ensureEmailFree(ctx, u.Email, ""); err != nil {
		return nil, err
	}
	if err := f.users.AddUser(ctx, u); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	return u, nil
}

// GetUser returns a user by ID.
func (f *Facade) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return f.users.GetUser(ctx, id)
}

// GetUserByEmail returns the user registered with email.
func (f *Facade) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return f.users.GetUserByEmail(ctx, normalized)
}

// ListUsers returns every user.
func (f *Facade) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users.ListUsers(ctx)
}

// CountUsers returns the number of registered users.
func (f *Facade) CountUsers(ctx context.Context) (int, error) {
	return f.users.CountUsers(ctx)
}

// UpdateUser applies a patch. The e-mail, when changed, must stay unique.
func (f *Facade) UpdateUser(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	u, err := f.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if patch.Password != nil {
		if err := u.HashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}
	if err := f.ensureEmailFree(ctx, u.Email, u.ID); err != nil {
		return nil, err
	}
	u.Touch()
	if err := f.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (f *Facade) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := f.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrEmailTaken
	}
	return nil
}

// --- Places ---

// PlaceInput carries the fields for a new place.
type PlaceInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	OwnerID     string
	AmenityIDs  []string
}

// PlacePatch carries a partial place update. Ownership cannot be changed.
type PlacePatch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	AmenityIDs  *[]string
}

// PlaceDetails is a place together with its related entities.
type PlaceDetails struct {
	Place     domain.Place
	Owner     domain.User
	Amenities []domain.Amenity
	Reviews   []domain.Review
}

// CreatePlace validates and stores a place. The owner and every listed
// amenity must exist.
func (f *Facade) CreatePlace(ctx context.Context, in PlaceInput) (*domain.Place, error) {
	p, err := domain.NewPlace(in.Title, in.Description, in.Price, in.Latitude, in.Longitude, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if _, err := f.users.GetUser(ctx, p.OwnerID); err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	if err := f.linkAmenities(ctx, p, in.AmenityIDs); err != nil {
		return nil, err
	}
	if err := f.places.AddPlace(ctx, p); err != nil {
		return nil, fmt.Errorf("add place: %w", err)
	}
	return p, nil
}

// GetPlace returns a place by ID.
func (f *Facade) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	return f.places.GetPlace(ctx, id)
}

// GetPlaceDetails returns a place with its owner, amenities and reviews.
func (f *Facade) GetPlaceDetails(ctx context.Context, id string) (*PlaceDetails, error) {
	p, err := f.places.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := f.users.GetUser(ctx, p.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	amenities := make([]domain.Amenity, 0, len(p.AmenityIDs))
	for _, aid := range p.AmenityIDs {
		a, err := f.amenities.GetAmenity(ctx, aid)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		amenities = append(amenities, *a)
	}
	reviews, err := f.reviews.ListReviewsByPlace(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &PlaceDetails{Place: *p, Owner: *owner, Amenities: amenities, Reviews: reviews}, nil
}

// ListPlaces returns every place.
func (f *Facade) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	return f.places.ListPlaces(ctx)
}

// ListPlacesByOwner returns the places owned by an existing user.
func (f *Facade) ListPlacesByOwner(ctx context.Context, ownerID string) ([]domain.Place, error) {
	if _, err := f.users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return f.places.ListPlacesByOwner(ctx, ownerID)
}

// UpdatePlace applies a patch on behalf of caller, who must own the place
// or be an admin.
func (f *Facade) UpdatePlace(ctx context.Context, caller *domain.Claims, id string, patch PlacePatch) (*domain.Place, error) {
	p, err := f.places.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActOn(p.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Latitude != nil {
		p.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		p.Longitude = *patch.Longitude
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if patch.AmenityIDs != nil {
		p.AmenityIDs = nil
		if err := f.linkAmenities(ctx, p, *patch.AmenityIDs); err != nil {
			return nil, err
		}
	}
	p.Touch()
	if err := f.places.UpdatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}
	return p, nil
}

// AddAmenityToPlace links an existing amenity to a place.
func (f *Facade) AddAmenityToPlace(ctx context.Context, caller *domain.Claims, placeID, amenityID string) (*domain.Place, error) {
	p, err := f.places.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !caller.CanActOn(p.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if err := f.linkAmenities(ctx, p, []string{amenityID}); err != nil {
		return nil, err
	}
	p.Touch()
	if err := f.places.UpdatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}
	return p, nil
}

func (f *Facade) linkAmenities(ctx context.Context, p *domain.Place, ids []string) error {
	for _, aid := range ids {
		if _, err := f.amenities.GetAmenity(ctx, aid); err != nil {
			return fmt.Errorf("amenity %s: %w", aid, err)
		}
		p.AddAmenity(aid)
	}
	return nil
}

// --- Reviews ---

// ReviewInput carries the fields for a new review.
type ReviewInput struct {
	Text    string
	Rating  int
	PlaceID string
	UserID  string
}

// ReviewPatch carries a partial review update.
type ReviewPatch struct {
	Text   *string
	Rating *int
}

// CreateReview validates and stores a review. The place and author must
// exist, owners may not review their own place, and a user reviews a place
// at most once.
func (f *Facade) CreateReview(ctx context.Context, in ReviewInput) (*domain.Review, error) {
	r, err := domain.NewReview(in.Text, in.Rating, in.PlaceID, in.UserID)
	if err != nil {
		return nil, err
	}
	p, err := f.places.GetPlace(ctx, r.PlaceID)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	if _, err := f.users.GetUser(ctx, r.UserID); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	if p.OwnerID == r.UserID {
		return nil, domain.ErrOwnPlaceReview
	}
	existing, err := f.reviews.ListReviewsByUser(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.PlaceID == r.PlaceID {
			return nil, domain.ErrDuplicateReview
		}
	}
	if err := f.reviews.AddReview(ctx, r); err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}
	return r, nil
}

// GetReview returns a review by ID.
func (f *Facade) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return f.reviews.GetReview(ctx, id)
}

// ListReviews returns every review.
func (f *Facade) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return f.reviews.ListReviews(ctx)
}

// ListReviewsByPlace returns the reviews of an existing place.
func (f *Facade) ListReviewsByPlace(ctx context.Context, placeID string) ([]domain.Review, error) {
	if _, err := f.places.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}
	return f.reviews.ListReviewsByPlace(ctx, placeID)
}

// UpdateReview applies a patch on behalf of caller, who must be the author
// or an admin.
func (f *Facade) UpdateReview(ctx context.Context, caller *domain.Claims, id string, patch ReviewPatch) (*domain.Review, error) {
	r, err := f.reviews.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActOn(r.UserID) {
		return nil, domain.ErrForbidden
	}
	if patch.Text != nil {
		r.Text = *patch.Text
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Touch()
	if err := f.reviews.UpdateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return r, nil
}

// DeleteReview removes a review on behalf of caller, who must be the author
// or an admin.
func (f *Facade) DeleteReview(ctx context.Context, caller *domain.Claims, id string) error {
	r, err := f.reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanActOn(r.UserID) {
		return domain.ErrForbidden
	}
	return f.reviews.DeleteReview(ctx, id)
}

// --- Amenities ---

// CreateAmenity validates and stores an amenity. Names are unique,
// ignoring case.
func (f *Facade) CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	a, err := domain.NewAmenity(name)
	if err != nil {
		return nil, err
	}
	if err := f.ensureAmenityNameFree(ctx, a.Name, ""); err != nil {
		return nil, err
	}
	if err := f.amenities.AddAmenity(ctx, a); err != nil {
		return nil, fmt.Errorf("add amenity: %w", err)
	}
	return a, nil
}

// GetAmenity returns an amenity by ID.
func (f *Facade) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	return f.amenities.GetAmenity(ctx, id)
}

// ListAmenities returns every amenity.
func (f *Facade) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return f.amenities.ListAmenities(ctx)
}

// UpdateAmenity renames an amenity.
func (f *Facade) UpdateAmenity(ctx context.Context, id, name string) (*domain.Amenity, error) {
	a, err := f.amenities.GetAmenity(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Name = name
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := f.ensureAmenityNameFree(ctx, a.Name, a.ID); err != nil {
		return nil, err
	}
	a.Touch()
	if err := f.amenities.UpdateAmenity(ctx, a); err != nil {
		return nil, fmt.Errorf("update amenity: %w", err)
	}
	return a, nil
}

func (f *Facade) ensureAmenityNameFree(ctx context.Context, name, selfID string) error {
	existing, err := f.amenities.GetAmenityByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrAmenityExists
	}
	return nil
}
