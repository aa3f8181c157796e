package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kscrape.yaml")
	yaml := `
http:
  workers: 4
wiki:
  delay: 1s
tmdb:
  api_key: testkey
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.HTTP.Workers)
	}
	if cfg.Wiki.Delay != time.Second {
		t.Errorf("wiki delay = %v, want 1s", cfg.Wiki.Delay)
	}
	if cfg.TMDB.APIKey != "testkey" {
		t.Errorf("api key = %q", cfg.TMDB.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Namu.BaseURL != "https://namu.wiki" {
		t.Errorf("namu base = %q", cfg.Namu.BaseURL)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.HTTP.Workers = 0 }},
		{"bad base url", func(c *Config) { c.Wiki.BaseURL = "ftp://example.com" }},
		{"negative delay", func(c *Config) { c.Namu.Delay = -1 }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRequireTMDBKey(t *testing.T) {
	cfg := DefaultConfig()
	if err := RequireTMDBKey(cfg); err == nil {
		t.Error("expected error for missing key")
	}
	cfg.TMDB.APIKey = "k"
	if err := RequireTMDBKey(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
