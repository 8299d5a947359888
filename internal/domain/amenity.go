package domain

import "context"

// Amenity is a feature a place can offer, such as "Wi-Fi".
type Amenity struct {
	Base
	Name string `json:"name"`
}

// NewAmenity validates the name and builds an amenity.
func NewAmenity(name string) (*Amenity, error) {
	a := &Amenity{Base: newBase(), Name: name}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the amenity constraints.
func (a *Amenity) Validate() error {
	var err error
	a.Name, err = requireText("name", a.Name, maxNameLen)
	return err
}

// AmenityRepository defines the port for amenity persistence operations.
type AmenityRepository interface {
	AddAmenity(ctx context.Context, a *Amenity) error
	GetAmenity(ctx context.Context, id string) (*Amenity, error)
	GetAmenityByName(ctx context.Context, name string) (*Amenity, error)
	ListAmenities(ctx context.Context) ([]Amenity, error)
	UpdateAmenity(ctx context.Context, a *Amenity) error
}
