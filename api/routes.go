package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"filmento/handlers"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	metadataHandler *handlers.MetadataHandler,
	authHandler *handlers.AuthHandler,
	reviewsHandler *handlers.ReviewsHandler,
	assistantHandler *handlers.AssistantHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Discovery and metadata
	api.HandleFunc("/media/trending", metadataHandler.Trending).Methods(http.MethodGet)
	api.HandleFunc("/media/top-rated", metadataHandler.TopRated).Methods(http.MethodGet)
	api.HandleFunc("/media/upcoming", metadataHandler.Upcoming).Methods(http.MethodGet)
	api.HandleFunc("/media/search", metadataHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/media/discover", metadataHandler.Discover).Methods(http.MethodGet)
	api.HandleFunc("/media/genres", metadataHandler.Genres).Methods(http.MethodGet)

	// Title details and sub-resources. {type} is movie or series.
	api.HandleFunc("/media/{type}/{id:[0-9]+}", metadataHandler.Details).Methods(http.MethodGet)
	api.HandleFunc("/media/{type}/{id:[0-9]+}/season/{season:[0-9]+}", metadataHandler.Season).Methods(http.MethodGet)
	api.HandleFunc("/media/{type}/{id:[0-9]+}/reviews", reviewsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/media/{type}/{id:[0-9]+}/reviews", reviewsHandler.Add).Methods(http.MethodPost)

	api.HandleFunc("/person/{id:[0-9]+}", metadataHandler.Person).Methods(http.MethodGet)
	api.HandleFunc("/collection/{id:[0-9]+}", metadataHandler.Collection).Methods(http.MethodGet)

	// Session and lists
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/google", authHandler.LoginGoogle).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/lists", authHandler.Lists).Methods(http.MethodGet)
	api.HandleFunc("/lists/watchlist/toggle", authHandler.ToggleWatchlist).Methods(http.MethodPost)
	api.HandleFunc("/lists/watched/toggle", authHandler.ToggleWatched).Methods(http.MethodPost)

	// Image resolution (redirects to upstream artwork or a placeholder)
	imagesHandler := handlers.NewImagesHandler()
	api.HandleFunc("/images/resolve", imagesHandler.Resolve).Methods(http.MethodGet)

	// Assistant chat
	api.HandleFunc("/assistant/chat", assistantHandler.Chat).Methods(http.MethodPost)

	// Settings
	api.HandleFunc("/settings/tmdb-key", settingsHandler.GetTMDBKeyStatus).Methods(http.MethodGet)
	api.HandleFunc("/settings/tmdb-key", settingsHandler.SetTMDBKey).Methods(http.MethodPut)
}
