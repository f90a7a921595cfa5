package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty db path, got %q", cfg.DBPath)
	}
	if cfg.Days != 1 {
		t.Fatalf("expected default days 1, got %d", cfg.Days)
	}
	if cfg.Format != "text" {
		t.Fatalf("expected default format text, got %q", cfg.Format)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHELFLIFE_DB", "/tmp/shelf.db")
	t.Setenv("SHELFLIFE_DAYS", "30")
	t.Setenv("SHELFLIFE_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/shelf.db" || cfg.Days != 30 || cfg.Format != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsNegativeDays(t *testing.T) {
	t.Setenv("SHELFLIFE_DAYS", "-3")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "SHELFLIFE_DAYS") {
		t.Fatalf("expected variable name in error, got %v", err)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("SHELFLIFE_DAYS", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
