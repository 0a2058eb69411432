package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"filmento/config"
)

type credentialUpdater interface {
	UpdateAPIKey(apiKey, language string)
	DemoMode() bool
}

// SettingsHandler lets the UI check and update the metadata credential.
// The stored key is never echoed back, only whether one is configured.
type SettingsHandler struct {
	Manager  *config.Manager
	Metadata credentialUpdater
}

func NewSettingsHandler(manager *config.Manager, metadata credentialUpdater) *SettingsHandler {
	return &SettingsHandler{Manager: manager, Metadata: metadata}
}

type tmdbKeyStatus struct {
	Configured bool `json:"configured"`
}

func (h *SettingsHandler) GetTMDBKeyStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, tmdbKeyStatus{Configured: !h.Metadata.DemoMode()})
}

type tmdbKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func (h *SettingsHandler) SetTMDBKey(w http.ResponseWriter, r *http.Request) {
	var req tmdbKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		respondError(w, http.StatusBadRequest, "apiKey is required")
		return
	}

	settings, err := h.Manager.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	settings.TMDB.APIKey = key
	if err := h.Manager.Save(settings); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	h.Metadata.UpdateAPIKey(key, settings.TMDB.Language)

	respondJSON(w, http.StatusOK, tmdbKeyStatus{Configured: true})
}
