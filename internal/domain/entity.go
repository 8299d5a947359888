// Package domain contains the core business entities and interfaces.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates that the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken indicates that another user already registered the e-mail.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAmenityExists indicates that an amenity with the same name exists.
	ErrAmenityExists = errors.New("amenity already exists")
	// ErrForbidden indicates that the caller may not act on the entity.
	ErrForbidden = errors.New("unauthorized action")
	// ErrInvalidCredentials indicates that the e-mail or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrOwnPlaceReview indicates that an owner tried to review their own place.
	ErrOwnPlaceReview = errors.New("you cannot review your own place")
	// ErrDuplicateReview indicates that the user already reviewed the place.
	ErrDuplicateReview = errors.New("you have already reviewed this place")
)

// ValidationError reports a field that failed a constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Base holds the fields shared by every entity.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBase() Base {
	now := time.Now().UTC()
	return Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// requireText trims s and checks it is non-empty and at most max runes.
// max <= 0 disables the length check.
func requireText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(field, "is required")
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", invalid(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return s, nil
}
