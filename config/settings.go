package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server  ServerSettings  `json:"server"`
	TMDB    TMDBSettings    `json:"tmdb"`
	Gemini  GeminiSettings  `json:"gemini"`
	Storage StorageSettings `json:"storage"`
	Log     LogConfig       `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// TMDBSettings carries the caller-held access credential for the metadata
// API. An empty APIKey is a distinguished state: the metadata service serves
// the built-in demo catalog instead of calling upstream.
type TMDBSettings struct {
	APIKey   string `json:"apiKey"`
	Language string `json:"language"`
}

type GeminiSettings struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// StorageSettings points at the directory holding all persisted user state
// (current user pointer, per-user lists, local reviews).
type StorageSettings struct {
	Directory string `json:"directory"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8480,
		},
		TMDB: TMDBSettings{
			Language: "fa-IR",
		},
		Gemini: GeminiSettings{
			Model: "gemini-2.5-flash-latest",
		},
		Storage: StorageSettings{
			Directory: filepath.Join("data", "store"),
		},
		Log: LogConfig{
			File:       filepath.Join("data", "logs", "filmento.log"),
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
// Environment variables FILMENTO_TMDB_KEY and GEMINI_API_KEY overlay the
// stored credentials without being written back.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}

	var settings Settings
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		settings = DefaultSettings()
		if err := m.Save(settings); err != nil {
			return Settings{}, err
		}
	} else {
		f, err := os.Open(m.path)
		if err != nil {
			return Settings{}, err
		}
		defer f.Close()

		settings = DefaultSettings()
		if err := json.NewDecoder(f).Decode(&settings); err != nil {
			return Settings{}, err
		}
	}

	if key := strings.TrimSpace(os.Getenv("FILMENTO_TMDB_KEY")); key != "" {
		settings.TMDB.APIKey = key
	}
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		settings.Gemini.APIKey = key
	}
	if settings.TMDB.Language == "" {
		settings.TMDB.Language = "fa-IR"
	}
	if settings.Gemini.Model == "" {
		settings.Gemini.Model = "gemini-2.5-flash-latest"
	}

	return settings, nil
}

// Save writes settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}

	if err := m.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
