package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"filmento/config"
	"filmento/handlers"
)

type fakeUpdater struct {
	key      string
	language string
	demo     bool
}

func (f *fakeUpdater) UpdateAPIKey(apiKey, language string) {
	f.key = apiKey
	f.language = language
	f.demo = apiKey == ""
}

func (f *fakeUpdater) DemoMode() bool { return f.demo }

func TestGetTMDBKeyStatusNeverEchoesKey(t *testing.T) {
	manager := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	h := handlers.NewSettingsHandler(manager, &fakeUpdater{demo: true})

	req := httptest.NewRequest(http.MethodGet, "/api/settings/tmdb-key", nil)
	rec := httptest.NewRecorder()
	h.GetTMDBKeyStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if configured, ok := resp["configured"].(bool); !ok || configured {
		t.Fatalf("expected configured=false, got %v", resp)
	}
	if _, ok := resp["apiKey"]; ok {
		t.Fatal("response must not contain the stored key")
	}
}

func TestSetTMDBKeyPersistsAndSwapsClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	manager := config.NewManager(path)
	updater := &fakeUpdater{demo: true}
	h := handlers.NewSettingsHandler(manager, updater)

	payload, _ := json.Marshal(map[string]string{"apiKey": "new-key"})
	req := httptest.NewRequest(http.MethodPut, "/api/settings/tmdb-key", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.SetTMDBKey(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if updater.key != "new-key" {
		t.Fatalf("expected metadata client swap with new key, got %q", updater.key)
	}

	settings, err := manager.Load()
	if err != nil {
		t.Fatalf("failed to reload settings: %v", err)
	}
	if settings.TMDB.APIKey != "new-key" {
		t.Fatalf("expected key persisted to disk, got %q", settings.TMDB.APIKey)
	}
}

func TestSetTMDBKeyRejectsEmptyKey(t *testing.T) {
	manager := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	h := handlers.NewSettingsHandler(manager, &fakeUpdater{})

	payload, _ := json.Marshal(map[string]string{"apiKey": "  "})
	req := httptest.NewRequest(http.MethodPut, "/api/settings/tmdb-key", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.SetTMDBKey(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
