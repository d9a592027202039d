package config

import (
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.PageWidth != 794 || cfg.PageHeight != 1123 {
		t.Errorf("page = %vx%v, want 794x1123", cfg.PageWidth, cfg.PageHeight)
	}
	if cfg.AutosaveInterval != 30*time.Second {
		t.Errorf("AutosaveInterval = %v", cfg.AutosaveInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTOSAVE_INTERVAL", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://auro.example, http://localhost:4200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}
	if cfg.AutosaveInterval != 5*time.Second {
		t.Errorf("AutosaveInterval = %v", cfg.AutosaveInterval)
	}
	want := []string{"auro.example", "localhost:4200"}
	if got := cfg.OriginHosts(); !slices.Equal(got, want) {
		t.Errorf("OriginHosts = %v, want %v", got, want)
	}
}

func TestLoadRejectsBadPage(t *testing.T) {
	t.Setenv("PAGE_WIDTH", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero page width")
	}
}

func TestLevelFallback(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v, want info", cfg.Level())
	}
}
