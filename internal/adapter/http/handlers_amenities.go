package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type amenityRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := s.facade.ListAmenities(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amenities)
}

func (s *Server) handleCreateAmenity(w http.ResponseWriter, r *http.Request) {
	var req amenityRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := s.facade.CreateAmenity(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleGetAmenity(w http.ResponseWriter, r *http.Request) {
	a, err := s.facade.GetAmenity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAmenity(w http.ResponseWriter, r *http.Request) {
	var req amenityRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := s.facade.UpdateAmenity(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
