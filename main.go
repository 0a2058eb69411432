package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"filmento/api"
	"filmento/config"
	"filmento/handlers"
	"filmento/internal/kvstore"
	"filmento/services/assistant"
	"filmento/services/identity"
	"filmento/services/metadata"
	"filmento/services/reviews"
	"filmento/services/session"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 Filmento Backend Starting...")

	// Load .env if present; its values overlay stored credentials in Load.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	configPath := os.Getenv("FILMENTO_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("data", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Persisted user state: one JSON file per key under the storage directory.
	store, err := kvstore.NewFileStore(afero.NewOsFs(), settings.Storage.Directory)
	if err != nil {
		log.Fatalf("failed to open storage at %s: %v", settings.Storage.Directory, err)
	}

	identitySvc := identity.NewService(store).WithDelay(800 * time.Millisecond)
	sess := session.New(identitySvc)

	metadataSvc := metadata.NewService(settings.TMDB.APIKey, settings.TMDB.Language)
	if metadataSvc.DemoMode() {
		fmt.Println("🧪 No TMDB credential configured: serving the built-in demo catalog.")
	}

	reviewsSvc := reviews.NewService(store, metadataSvc)
	assistantClient := assistant.NewClient(settings.Gemini.APIKey, settings.Gemini.Model, nil)

	router := mux.NewRouter()
	api.Register(
		router,
		handlers.NewMetadataHandler(metadataSvc),
		handlers.NewAuthHandler(sess),
		handlers.NewReviewsHandler(reviewsSvc, sess),
		handlers.NewAssistantHandler(assistantClient),
		handlers.NewSettingsHandler(cfgManager, metadataSvc),
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
