// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"hbnb/internal/domain"
)

// table maps identifiers to entities and remembers insertion order.
// Values are stored and returned by copy so callers never alias stored state.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) {
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(k string) bool { return k == id })
}

// find returns the first row matching the predicate.
func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// list returns every row matching the predicate in insertion order.
func (t *table[T]) list(match func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if v := t.rows[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.RWMutex
	users     *table[domain.User]
	places    *table[domain.Place]
	reviews   *table[domain.Review]
	amenities *table[domain.Amenity]
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		users:     newTable[domain.User](),
		places:    newTable[domain.Place](),
		reviews:   newTable[domain.Review](),
		amenities: newTable[domain.Amenity](),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.PlaceRepository = (*DB)(nil)
var _ domain.ReviewRepository = (*DB)(nil)
var _ domain.AmenityRepository = (*DB)(nil)

// --- UserRepository ---

// AddUser stores a user. The e-mail must not already be registered.
func (db *DB) AddUser(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, taken := db.users.find(byEmail(u.Email)); taken {
		return domain.ErrEmailTaken
	}
	db.users.put(u.ID, *u)
	return nil
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id string) (*domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by e-mail, case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users.find(byEmail(email))
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// ListUsers returns all users.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.users.list(nil), nil
}

// UpdateUser replaces a stored user.
func (db *DB) UpdateUser(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users.get(u.ID); !ok {
		return domain.ErrNotFound
	}
	if other, taken := db.users.find(byEmail(u.Email)); taken && other.ID != u.ID {
		return domain.ErrEmailTaken
	}
	db.users.put(u.ID, *u)
	return nil
}

// CountUsers returns the total number of users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.users.rows), nil
}

func byEmail(email string) func(domain.User) bool {
	return func(u domain.User) bool { return strings.EqualFold(u.Email, email) }
}

// --- PlaceRepository ---

// AddPlace stores a place.
func (db *DB) AddPlace(ctx context.Context, p *domain.Place) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.places.put(p.ID, clonePlace(*p))
	return nil
}

// GetPlace retrieves a place by ID.
func (db *DB) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	p, ok := db.places.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = clonePlace(p)
	return &p, nil
}

// ListPlaces returns all places.
func (db *DB) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return clonePlaces(db.places.list(nil)), nil
}

// ListPlacesByOwner returns the places owned by a user.
func (db *DB) ListPlacesByOwner(ctx context.Context, ownerID string) ([]domain.Place, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return clonePlaces(db.places.list(func(p domain.Place) bool { return p.OwnerID == ownerID })), nil
}

// UpdatePlace replaces a stored place.
func (db *DB) UpdatePlace(ctx context.Context, p *domain.Place) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.places.get(p.ID); !ok {
		return domain.ErrNotFound
	}
	db.places.put(p.ID, clonePlace(*p))
	return nil
}

func clonePlace(p domain.Place) domain.Place {
	p.AmenityIDs = slices.Clone(p.AmenityIDs)
	return p
}

func clonePlaces(ps []domain.Place) []domain.Place {
	for i := range ps {
		ps[i] = clonePlace(ps[i])
	}
	return ps
}

// --- ReviewRepository ---

// AddReview stores a review. A user may review a place only once.
func (db *DB) AddReview(ctx context.Context, r *domain.Review) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, dup := db.reviews.find(func(e domain.Review) bool {
		return e.UserID == r.UserID && e.PlaceID == r.PlaceID
	}); dup {
		return domain.ErrDuplicateReview
	}
	db.reviews.put(r.ID, *r)
	return nil
}

// GetReview retrieves a review by ID.
func (db *DB) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	r, ok := db.reviews.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// ListReviews returns all reviews.
func (db *DB) ListReviews(ctx context.Context) ([]domain.Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.reviews.list(nil), nil
}

// ListReviewsByPlace returns the reviews of a place.
func (db *DB) ListReviewsByPlace(ctx context.Context, placeID string) ([]domain.Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.reviews.list(func(r domain.Review) bool { return r.PlaceID == placeID }), nil
}

// ListReviewsByUser returns the reviews written by a user.
func (db *DB) ListReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.reviews.list(func(r domain.Review) bool { return r.UserID == userID }), nil
}

// UpdateReview replaces a stored review.
func (db *DB) UpdateReview(ctx context.Context, r *domain.Review) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.reviews.get(r.ID); !ok {
		return domain.ErrNotFound
	}
	db.reviews.put(r.ID, *r)
	return nil
}

// DeleteReview removes a review by ID.
func (db *DB) DeleteReview(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.reviews.get(id); !ok {
		return domain.ErrNotFound
	}
	db.reviews.remove(id)
	return nil
}

// --- AmenityRepository ---

// AddAmenity stores an amenity. The name must not already be in use.
func (db *DB) AddAmenity(ctx context.Context, a *domain.Amenity) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, taken := db.amenities.find(byName(a.Name)); taken {
		return domain.ErrAmenityExists
	}
	db.amenities.put(a.ID, *a)
	return nil
}

// GetAmenity retrieves an amenity by ID.
func (db *DB) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	a, ok := db.amenities.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// GetAmenityByName retrieves an amenity by name, case-insensitively.
func (db *DB) GetAmenityByName(ctx context.Context, name string) (*domain.Amenity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	a, ok := db.amenities.find(byName(name))
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// ListAmenities returns all amenities.
func (db *DB) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.amenities.list(nil), nil
}

// UpdateAmenity replaces a stored amenity.
func (db *DB) UpdateAmenity(ctx context.Context, a *domain.Amenity) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.amenities.get(a.ID); !ok {
		return domain.ErrNotFound
	}
	if other, taken := db.amenities.find(byName(a.Name)); taken && other.ID != a.ID {
		return domain.ErrAmenityExists
	}
	db.amenities.put(a.ID, *a)
	return nil
}

func byName(name string) func(domain.Amenity) bool {
	return func(a domain.Amenity) bool { return strings.EqualFold(a.Name, name) }
}
