package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hbnb/internal/app"
)

type placeRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Amenities   []string `json:"amenities"`
	// OwnerID is accepted for compatibility but the caller always owns the
	// new place.
	OwnerID string `json:"owner_id"`
}

type placePatchRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Amenities   *[]string `json:"amenities"`
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := s.facade.ListPlaces(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]placeSummary, 0, len(places))
	for i := range places {
		out = append(out, newPlaceSummary(&places[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUserPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := s.facade.ListPlacesByOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]placeSummary, 0, len(places))
	for i := range places {
		out = append(out, newPlaceSummary(&places[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.facade.CreatePlace(r.Context(), app.PlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OwnerID:     claimsFrom(r.Context()).UserID,
		AmenityIDs:  req.Amenities,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlaceSummary(p))
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	d, err := s.facade.GetPlaceDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlaceDetails(d))
}

func (s *Server) handleUpdatePlace(w http.ResponseWriter, r *http.Request) {
	var req placePatchRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.facade.UpdatePlace(r.Context(), claimsFrom(r.Context()), chi.URLParam(r, "id"), app.PlacePatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		AmenityIDs:  req.Amenities,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlaceSummary(p))
}

func (s *Server) handlePlaceReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.facade.ListReviewsByPlace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]placeReview, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, placeReview{ID: rv.ID, Text: rv.Text, Rating: rv.Rating, UserID: rv.UserID})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddPlaceAmenity(w http.ResponseWriter, r *http.Request) {
	p, err := s.facade.AddAmenityToPlace(r.Context(), claimsFrom(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "amenityID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": p.ID, "amenity_ids": p.AmenityIDs})
}
