package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		LogLevel:    "info",
		Format:      "json",
		MaxDepth:    32,
		CustomTypes: []string{},
		Rules:       "expr",
		HTTP:        HTTPConfig{Timeout: 10 * time.Second, MaxBytes: 4 << 20},
		Cache:       CacheConfig{MaxCost: 64 << 20},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("expected info level")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formfate.yaml")
	content := `
log_level: debug
format: yaml
max_depth: 8
custom_types: [stars, map-picker]
http:
  enabled: true
  timeout: 3s
cache:
  enabled: true
  ttl: 1m
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMFATE_MAX_DEPTH", "4")
	t.Setenv("FORMFATE_HTTP_MAX_BYTES", "1024")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelDebug || cfg.Format != "yaml" {
		t.Fatalf("unexpected general settings: %+v", cfg)
	}
	if cfg.MaxDepth != 4 {
		t.Fatalf("expected env to override max_depth, got %d", cfg.MaxDepth)
	}
	if diff := cmp.Diff([]string{"stars", "map-picker"}, cfg.CustomTypes); diff != "" {
		t.Fatalf("custom types mismatch (-want +got):\n%s", diff)
	}
	if !cfg.HTTP.Enabled || cfg.HTTP.Timeout != 3*time.Second || cfg.HTTP.MaxBytes != 1024 {
		t.Fatalf("unexpected http settings: %+v", cfg.HTTP)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != time.Minute {
		t.Fatalf("unexpected cache settings: %+v", cfg.Cache)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected explicit missing file to fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("format: xml\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected invalid format to fail")
	}

	t.Setenv("FORMFATE_LOG_LEVEL", "loud")
	t.Setenv("HOME", dir)
	if _, err := Load(""); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
}
