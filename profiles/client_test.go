package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calvinmclean/cadstick/config"
)

func TestJSON(t *testing.T) {
	rawJSON := `{"id":"d4kdisifn76c73dkrju0","name":"workbench","createdAt":"2026-08-21T10:00:00Z","config":{"Deadzone":0.05,"MaxUnwindStep":100}}`

	var p profile
	if err := json.Unmarshal([]byte(rawJSON), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.GetID() != "d4kdisifn76c73dkrju0" {
		t.Errorf("GetID() = %q", p.GetID())
	}
	if p.Name != "workbench" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Config.Deadzone != 0.05 {
		t.Errorf("Config.Deadzone = %v", p.Config.Deadzone)
	}
}

func TestFetch(t *testing.T) {
	stored := Profile{ID: "abc123", Name: "workbench", Config: config.Default()}
	stored.Config.Deadzone = 0.04

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/profiles/abc123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile{Profile: stored})
	}))
	defer server.Close()

	cfg, err := NewClient(server.URL).Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if cfg.Deadzone != 0.04 {
		t.Errorf("Deadzone = %v, want 0.04", cfg.Deadzone)
	}
	if cfg.Pan.Speed != -25 {
		t.Errorf("Pan.Speed = %v, want -25", cfg.Pan.Speed)
	}
}

func TestFetchRejectsInvalidProfile(t *testing.T) {
	bad := Profile{ID: "abc123", Name: "broken"}
	bad.Config = config.Default()
	bad.Config.MaxUnwindStep = 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile{Profile: bad})
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Fetch(context.Background(), "abc123"); err == nil {
		t.Error("expected error for profile with invalid config")
	}
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/profiles" {
			http.NotFound(w, r)
			return
		}

		var p profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if p.Name != "workbench" {
			http.Error(w, "unexpected name", http.StatusBadRequest)
			return
		}

		p.Profile.ID = "new-id-1"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}))
	defer server.Close()

	id, err := NewClient(server.URL).Upload(context.Background(), "workbench", config.Default())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if id != "new-id-1" {
		t.Errorf("Upload returned ID %q, want new-id-1", id)
	}
}

func TestUploadRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Calibration = nil

	if _, err := NewClient("http://localhost:1").Upload(context.Background(), "x", cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}
