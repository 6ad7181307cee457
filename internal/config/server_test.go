package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/balatro?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.MaxUploadMB != 10 {
		t.Fatalf("MaxUploadMB = %d, want 10", cfg.MaxUploadMB)
	}
	if cfg.RefreshInterval() != 5*time.Second {
		t.Fatalf("RefreshInterval = %v, want 5s", cfg.RefreshInterval())
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/balatro?sslmode=disable")
	t.Setenv("SCREENSHOT_DIR", "/var/lib/balatro/screenshots")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("REFRESH_INTERVAL_MS", "2000")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.ScreenshotDir != "/var/lib/balatro/screenshots" {
		t.Fatalf("ScreenshotDir = %q", cfg.ScreenshotDir)
	}
	if cfg.MaxUploadBytes() != 25*1024*1024 {
		t.Fatalf("MaxUploadBytes = %d, want 25MB", cfg.MaxUploadBytes())
	}
	if cfg.RefreshInterval() != 2*time.Second {
		t.Fatalf("RefreshInterval = %v, want 2s", cfg.RefreshInterval())
	}
}
