package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("BOARD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Web.Addr != "127.0.0.1:7420" {
		t.Fatalf("expected default web addr, got %q", c.Web.Addr)
	}
	if c.Seed.Containers != 3 || c.Seed.Items != 3 {
		t.Fatalf("expected default seed 3x3, got %+v", c.Seed)
	}
	if c.UI.Theme != "auto" {
		t.Fatalf("expected auto theme, got %q", c.UI.Theme)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[ui]\ntheme = \"dark\"\n\n[seed]\ncontainers = 5\nitems = 1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOARD_CONFIG", path)
	t.Setenv("BOARD_WEB_ADDR", "127.0.0.1:9999")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.UI.Theme != "dark" {
		t.Fatalf("expected theme from file, got %q", c.UI.Theme)
	}
	if c.Seed.Containers != 5 || c.Seed.Items != 1 {
		t.Fatalf("expected seed from file, got %+v", c.Seed)
	}
	if c.Web.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected env override, got %q", c.Web.Addr)
	}
}

func TestLoad_RejectsInvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOARD_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid theme error")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("BOARD_CONFIG", path)

	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.Log.Level = "debug"
	cfg.Seed.Containers = 2
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UI.Theme != "light" || got.Log.Level != "debug" || got.Seed.Containers != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
