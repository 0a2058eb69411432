package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"filmento/models"
	"filmento/services/identity"
	"filmento/services/session"
)

// AuthHandler exposes login, logout and list mutation over the session
// façade. There is exactly one session per running instance.
type AuthHandler struct {
	Session *session.Session
}

func NewAuthHandler(sess *session.Session) *AuthHandler {
	return &AuthHandler{Session: sess}
}

type loginRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	User  *models.User     `json:"user"`
	Lists models.UserLists `json:"lists"`
}

func (h *AuthHandler) sessionState() sessionResponse {
	resp := sessionResponse{Lists: h.Session.Lists()}
	if user, ok := h.Session.User(); ok {
		resp.User = &user
	}
	return resp
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Session.Login(r.Context(), req.Email); err != nil {
		if errors.Is(err, identity.ErrEmailRequired) {
			respondError(w, http.StatusBadRequest, "email is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, h.sessionState())
}

func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Session.LoginGoogle(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, h.sessionState())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Logout(); err != nil {
		respondError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	respondJSON(w, http.StatusOK, h.sessionState())
}

// Me reports the current session state. A logged-out session is not an
// error: the user field is simply null.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionState())
}

func (h *AuthHandler) Lists(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Session.Lists())
}

type toggleRequest struct {
	Item models.MediaItem `json:"item"`
}

func (h *AuthHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Session.ToggleWatchlist)
}

func (h *AuthHandler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Session.ToggleWatched)
}

func (h *AuthHandler) toggle(w http.ResponseWriter, r *http.Request, op func(models.MediaItem) models.UserLists) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item.ID == 0 {
		respondError(w, http.StatusBadRequest, "item id is required")
		return
	}
	kind, ok := models.ParseMediaType(string(req.Item.Type))
	if !ok {
		respondError(w, http.StatusBadRequest, "item type must be movie or series")
		return
	}
	// Canonicalize aliases ("tv", "show") so list membership is always keyed
	// by the same (type, id) pair the read paths use.
	req.Item.Type = kind

	respondJSON(w, http.StatusOK, op(req.Item))
}
