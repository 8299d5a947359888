package adapthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hbnb/internal/app"
	"hbnb/internal/domain"
)

type reviewRequest struct {
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	PlaceID string `json:"place_id"`
	// UserID is ignored: the author is always the caller.
	UserID string `json:"user_id"`
}

type reviewPatchRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

type reviewView struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newReviewView(r *domain.Review) reviewView {
	return reviewView{
		ID:        r.ID,
		Text:      r.Text,
		Rating:    r.Rating,
		UserID:    r.UserID,
		PlaceID:   r.PlaceID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.facade.ListReviews(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]reviewView, 0, len(reviews))
	for i := range reviews {
		out = append(out, newReviewView(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rv, err := s.facade.CreateReview(r.Context(), app.ReviewInput{
		Text:    req.Text,
		Rating:  req.Rating,
		PlaceID: req.PlaceID,
		UserID:  claimsFrom(r.Context()).UserID,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newReviewView(rv))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	rv, err := s.facade.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newReviewView(rv))
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewPatchRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rv, err := s.facade.UpdateReview(r.Context(), claimsFrom(r.Context()), chi.URLParam(r, "id"), app.ReviewPatch{
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newReviewView(rv))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.DeleteReview(r.Context(), claimsFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}
