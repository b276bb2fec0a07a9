package infra

import (
	"context"
	"errors"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "PORT", "STORAGE_BASE_URL", "REMOTE_PROVIDER", "REMOTE_BASE_URL",
	"GEMINI_API_KEY", "DATABASE_URL", "HANDOFF_BACKEND", "REMOTE_PACING_MS",
	"PROGRESS_INTERVAL_MS", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
	if cfg.RemoteProvider != RemoteProviderNone || cfg.HandoffBackend != HandoffBackendMemory {
		t.Fatalf("unexpected backends: %q %q", cfg.RemoteProvider, cfg.HandoffBackend)
	}
	if cfg.RemotePacing != 500*time.Millisecond || cfg.ProgressInterval != 400*time.Millisecond {
		t.Fatalf("unexpected pacing %v / interval %v", cfg.RemotePacing, cfg.ProgressInterval)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "1919")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:1919/static" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
}

func TestLoadConfigHonorsExplicitValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STORAGE_BASE_URL", "https://cdn.example.com/static/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ")
	t.Setenv("REMOTE_PACING_MS", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "https://cdn.example.com/static" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.RemotePacing != 0 {
		t.Fatalf("RemotePacing = %v, want 0", cfg.RemotePacing)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		ok   bool
	}{
		{"unknown provider", map[string]string{"REMOTE_PROVIDER": "magic"}, false},
		{"http without url", map[string]string{"REMOTE_PROVIDER": "http"}, false},
		{"http with url", map[string]string{"REMOTE_PROVIDER": "http", "REMOTE_BASE_URL": "http://ai:5000"}, true},
		{"gemini without key", map[string]string{"REMOTE_PROVIDER": "gemini"}, false},
		{"gemini with key", map[string]string{"REMOTE_PROVIDER": "GEMINI", "GEMINI_API_KEY": "k"}, true},
		{"gemini with database", map[string]string{"REMOTE_PROVIDER": "gemini", "DATABASE_URL": "postgres://x"}, true},
		{"unknown backend", map[string]string{"HANDOFF_BACKEND": "disk"}, false},
		{"postgres without url", map[string]string{"HANDOFF_BACKEND": "postgres"}, false},
		{"redis", map[string]string{"HANDOFF_BACKEND": "redis"}, true},
		{"negative upload", map[string]string{"MAX_UPLOAD_BYTES": "-1"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewDBPoolRequiresURL(t *testing.T) {
	for _, cfg := range []*Config{nil, {}} {
		if _, err := NewDBPool(context.Background(), cfg); !errors.Is(err, ErrNoDatabase) {
			t.Fatalf("err = %v, want ErrNoDatabase", err)
		}
	}
}
