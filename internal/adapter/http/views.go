package adapthttp

import (
	"time"

	"hbnb/internal/app"
	"hbnb/internal/domain"
)

type userView struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type placeSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OwnerID     string  `json:"owner_id"`
}

func newPlaceSummary(p *domain.Place) placeSummary {
	return placeSummary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		OwnerID:     p.OwnerID,
	}
}

type ownerView struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type amenityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type placeReview struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	UserID string `json:"user_id"`
}

type placeDetails struct {
	placeSummary
	Owner     ownerView     `json:"owner"`
	Amenities []amenityRef  `json:"amenities"`
	Reviews   []placeReview `json:"reviews"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newPlaceDetails(d *app.PlaceDetails) placeDetails {
	out := placeDetails{
		placeSummary: newPlaceSummary(&d.Place),
		Owner: ownerView{
			ID:        d.Owner.ID,
			FirstName: d.Owner.FirstName,
			LastName:  d.Owner.LastName,
			Email:     d.Owner.Email,
		},
		Amenities: make([]amenityRef, 0, len(d.Amenities)),
		Reviews:   make([]placeReview, 0, len(d.Reviews)),
		CreatedAt: d.Place.CreatedAt,
		UpdatedAt: d.Place.UpdatedAt,
	}
	for _, a := range d.Amenities {
		out.Amenities = append(out.Amenities, amenityRef{ID: a.ID, Name: a.Name})
	}
	for _, r := range d.Reviews {
		out.Reviews = append(out.Reviews, placeReview{ID: r.ID, Text: r.Text, Rating: r.Rating, UserID: r.UserID})
	}
	return out
}
