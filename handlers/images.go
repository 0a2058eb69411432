package handlers

import (
	"net/http"

	"filmento/services/metadata"
)

// ImagesHandler resolves stored image paths to renderable URLs so the view
// layer never builds upstream URLs itself.
type ImagesHandler struct{}

func NewImagesHandler() *ImagesHandler {
	return &ImagesHandler{}
}

// Resolve redirects to the upstream image, or to a placeholder when the path
// is absent. Missing artwork is expected, so this never 404s.
func (h *ImagesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var path *string
	if raw := r.URL.Query().Get("path"); raw != "" {
		path = &raw
	}

	url := metadata.ImageURL(path, r.URL.Query().Get("size"))
	http.Redirect(w, r, url, http.StatusFound)
}
