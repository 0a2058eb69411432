package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"filmento/models"
	metadatapkg "filmento/services/metadata"
)

type metadataService interface {
	Trending(ctx context.Context, kind models.MediaType) []models.MediaItem
	TopRated(ctx context.Context, kind models.MediaType) []models.MediaItem
	Upcoming(ctx context.Context) []models.MediaItem
	Search(ctx context.Context, query string) []models.MediaItem
	DiscoverByGenre(ctx context.Context, kind models.MediaType, genreID int64) []models.MediaItem
	Genres(ctx context.Context, kind models.MediaType) []models.Genre
	Details(ctx context.Context, kind models.MediaType, id int64) *models.MediaItem
	PersonDetails(ctx context.Context, id int64) *models.PersonDetails
	CollectionDetails(ctx context.Context, id int64) *models.CollectionDetails
	SeasonDetails(ctx context.Context, seriesID int64, seasonNumber int) *models.SeasonDetails
	DemoMode() bool
}

var _ metadataService = (*metadatapkg.Service)(nil)

type MetadataHandler struct {
	Service metadataService
}

func NewMetadataHandler(s metadataService) *MetadataHandler {
	return &MetadataHandler{Service: s}
}

// listResponse wraps list payloads with the demo marker so the UI can show
// the demo-mode notice, distinct from a legitimate empty result.
type listResponse struct {
	Items []models.MediaItem `json:"items"`
	Demo  bool               `json:"demo"`
}

func (h *MetadataHandler) Trending(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be movie or series")
		return
	}

	items := h.Service.Trending(r.Context(), kind)
	respondJSON(w, http.StatusOK, listResponse{Items: items, Demo: h.Service.DemoMode()})
}

func (h *MetadataHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be movie or series")
		return
	}

	items := h.Service.TopRated(r.Context(), kind)
	respondJSON(w, http.StatusOK, listResponse{Items: items, Demo: h.Service.DemoMode()})
}

func (h *MetadataHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	items := h.Service.Upcoming(r.Context())
	respondJSON(w, http.StatusOK, listResponse{Items: items, Demo: h.Service.DemoMode()})
}

func (h *MetadataHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items := h.Service.Search(r.Context(), query)
	respondJSON(w, http.StatusOK, listResponse{Items: items, Demo: h.Service.DemoMode()})
}

func (h *MetadataHandler) Discover(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be movie or series")
		return
	}

	genreID, err := strconv.ParseInt(r.URL.Query().Get("genre"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "genre must be a numeric id")
		return
	}

	items := h.Service.DiscoverByGenre(r.Context(), kind, genreID)
	respondJSON(w, http.StatusOK, listResponse{Items: items, Demo: h.Service.DemoMode()})
}

func (h *MetadataHandler) Genres(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be movie or series")
		return
	}

	respondJSON(w, http.StatusOK, h.Service.Genres(r.Context(), kind))
}

func (h *MetadataHandler) Details(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := mediaFromVars(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	item := h.Service.Details(r.Context(), kind, id)
	if item == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *MetadataHandler) Person(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid person id")
		return
	}

	details := h.Service.PersonDetails(r.Context(), id)
	if details == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *MetadataHandler) Collection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	details := h.Service.CollectionDetails(r.Context(), id)
	if details == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *MetadataHandler) Season(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	seriesID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid series id")
		return
	}
	seasonNumber, err := strconv.Atoi(vars["season"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid season number")
		return
	}

	details := h.Service.SeasonDetails(r.Context(), seriesID, seasonNumber)
	if details == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func kindFromQuery(r *http.Request) (models.MediaType, bool) {
	return models.ParseMediaType(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))))
}

func mediaFromVars(r *http.Request) (models.MediaType, int64, bool) {
	vars := mux.Vars(r)

	kind, ok := models.ParseMediaType(vars["type"])
	if !ok {
		return "", 0, false
	}

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return "", 0, false
	}

	return kind, id, true
}
