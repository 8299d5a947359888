package domain

import (
	"context"
	"slices"
	"strings"
)

const maxTitleLen = 100

// Place is a listing offered by an owner.
type Place struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenity_ids,omitempty"`
}

// NewPlace validates the fields and builds a place. Owner existence is the
// caller's concern.
func NewPlace(title, description string, price, latitude, longitude float64, ownerID string) (*Place, error) {
	p := &Place{
		Base:        newBase(),
		Title:       title,
		Description: description,
		Price:       price,
		Latitude:    latitude,
		Longitude:   longitude,
		OwnerID:     ownerID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the place constraints.
func (p *Place) Validate() error {
	var err error
	if p.Title, err = requireText("title", p.Title, maxTitleLen); err != nil {
		return err
	}
	p.Description = strings.TrimSpace(p.Description)
	if p.Price <= 0 {
		return invalid("price", "must be a positive number")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return invalid("latitude", "must be within [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return invalid("longitude", "must be within [-180, 180]")
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return invalid("owner_id", "is required")
	}
	return nil
}

// AddAmenity links an amenity. Linking the same amenity twice is a no-op.
func (p *Place) AddAmenity(amenityID string) {
	if !slices.Contains(p.AmenityIDs, amenityID) {
		p.AmenityIDs = append(p.AmenityIDs, amenityID)
	}
}

// PlaceRepository defines the port for place persistence operations.
type PlaceRepository interface {
	AddPlace(ctx context.Context, p *Place) error
	GetPlace(ctx context.Context, id string) (*Place, error)
	ListPlaces(ctx context.Context) ([]Place, error)
	ListPlacesByOwner(ctx context.Context, ownerID string) ([]Place, error)
	UpdatePlace(ctx context.Context, p *Place) error
}
