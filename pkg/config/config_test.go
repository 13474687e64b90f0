package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name    string `yaml:"name" env:"APP_NAME"`
	Port    int    `yaml:"port" env:"APP_PORT"`
	Debug   bool   `yaml:"debug" env:"APP_DEBUG"`
	Backend struct {
		URL string `yaml:"url" env:"BACKEND_URL"`
	} `yaml:"backend"`
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestLoad(t *testing.T) {
	path := writeTemp(t, `
name: test-app
port: 8080
debug: false
backend:
  url: https://example.com/api
`)

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Name != "test-app" {
		t.Fatalf("expected 'test-app', got '%s'", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected 8080, got %d", cfg.Port)
	}
	if cfg.Debug {
		t.Fatal("expected debug to be false")
	}
	if cfg.Backend.URL != "https://example.com/api" {
		t.Fatalf("unexpected backend url: %s", cfg.Backend.URL)
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeTemp(t, `
name: default
port: 3000
`)

	t.Setenv("APP_NAME", "from-env")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("BACKEND_URL", "https://env.example.com")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Name != "from-env" {
		t.Fatalf("expected 'from-env', got '%s'", cfg.Name)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected 9090, got %d", cfg.Port)
	}
	if !cfg.Debug {
		t.Fatal("expected debug to be true from env")
	}
	if cfg.Backend.URL != "https://env.example.com" {
		t.Fatalf("expected nested env override, got '%s'", cfg.Backend.URL)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Setenv("APP_NAME", "env-only")

	var cfg testConfig
	if err := LoadOrDefault("/nonexistent/config.yaml", &cfg); err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	// Env overrides still apply without a file.
	if cfg.Name != "env-only" {
		t.Fatalf("expected 'env-only', got '%s'", cfg.Name)
	}
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(existing, []byte("name: x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := FirstExisting("", filepath.Join(dir, "missing.yaml"), existing)
	if got != existing {
		t.Fatalf("expected %s, got %s", existing, got)
	}
	if FirstExisting(filepath.Join(dir, "missing.yaml")) != "" {
		t.Fatal("expected empty result when nothing exists")
	}
}
