package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"filmento/models"
	"filmento/services/reviews"
	"filmento/services/session"
)

type reviewService interface {
	GetAll(ctx context.Context, kind models.MediaType, id int64) []models.Review
	Add(kind models.MediaType, id int64, user models.User, content string, rating float64) ([]models.Review, error)
}

var _ reviewService = (*reviews.Service)(nil)

// ReviewsHandler serves the merged review view and accepts new local
// reviews from the logged-in user.
type ReviewsHandler struct {
	Service reviewService
	Session *session.Session
}

func NewReviewsHandler(service reviewService, sess *session.Session) *ReviewsHandler {
	return &ReviewsHandler{Service: service, Session: sess}
}

func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := mediaFromVars(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	respondJSON(w, http.StatusOK, h.Service.GetAll(r.Context(), kind, id))
}

type addReviewRequest struct {
	Content string  `json:"content"`
	Rating  float64 `json:"rating"`
}

func (h *ReviewsHandler) Add(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := mediaFromVars(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	user, ok := h.Session.User()
	if !ok {
		respondError(w, http.StatusUnauthorized, "login required")
		return
	}

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	local, err := h.Service.Add(kind, id, user, req.Content, req.Rating)
	if err != nil {
		if errors.Is(err, reviews.ErrContentRequired) {
			respondError(w, http.StatusBadRequest, "review content is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save review")
		return
	}

	respondJSON(w, http.StatusCreated, local)
}
