package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
sleeper:
  username: warroom
  season: 2025
refresh:
  interval: 20s
  live_ttl: 10s
log:
  level: debug
prefs:
  show_eliminated_leagues: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("error loading config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Sleeper.Username != "warroom" || cfg.Sleeper.Season != 2025 {
		t.Errorf("sleeper config wrong: %+v", cfg.Sleeper)
	}
	if cfg.Refresh.Interval != 20*time.Second || cfg.Refresh.LiveTTL != 10*time.Second {
		t.Errorf("refresh overrides not applied: %+v", cfg.Refresh)
	}
	if !cfg.Prefs.ShowEliminatedLeagues {
		t.Error("expected show_eliminated_leagues to be true")
	}

	// Unset fields pick up defaults.
	if cfg.Refresh.IdleTTL != 5*time.Minute {
		t.Errorf("expected default idle TTL, got %v", cfg.Refresh.IdleTTL)
	}
	if cfg.Playoffs.FallbackWeekStart != 15 {
		t.Errorf("expected default playoff fallback 15, got %d", cfg.Playoffs.FallbackWeekStart)
	}
	if cfg.Players.UpdateInterval != 24*time.Hour {
		t.Errorf("expected default player update interval, got %v", cfg.Players.UpdateInterval)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log config wrong: %+v", cfg.Log)
	}
}

func TestLoad_expandsEnvironment(t *testing.T) {
	t.Setenv("SLEEPER_USERNAME", "warroom")

	path := writeConfig(t, `
sleeper:
  username: ${SLEEPER_USERNAME}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("error loading config: %v", err)
	}
	if cfg.Sleeper.Username != "warroom" {
		t.Errorf("expected username from environment, got '%s'", cfg.Sleeper.Username)
	}
}

func TestLoad_missingUsername(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a config with no sleeper username")
	}
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Refresh.LiveTTL != 15*time.Second || cfg.Refresh.IdleTTL != 5*time.Minute {
		t.Errorf("default TTLs wrong: %+v", cfg.Refresh)
	}
}
