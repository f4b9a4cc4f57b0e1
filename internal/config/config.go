// Package config loads CLI settings from an optional formfate.yaml and
// FORMFATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FORMFATE_HTTP_TIMEOUT.
const EnvPrefix = "formfate"

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config holds the resolved CLI settings.
type Config struct {
	LogLevel    string
	Format      string
	MaxDepth    int
	CustomTypes []string
	Rules       string
	HTTP        HTTPConfig
	Cache       CacheConfig
}

// HTTPConfig controls remote definition loading.
type HTTPConfig struct {
	Enabled  bool
	Timeout  time.Duration
	MaxBytes int64
}

// CacheConfig sizes the memoization layer.
type CacheConfig struct {
	Enabled bool
	MaxCost int64
	TTL     time.Duration
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	if level, ok := logLevelMapping[strings.ToLower(c.LogLevel)]; ok {
		return level
	}
	return slog.LevelInfo
}

// Load reads configuration. An explicit path must exist; without one the
// file is looked up as formfate.{yaml,json,toml} in the working directory and
// $HOME/.config/formfate, and a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("format", "json")
	v.SetDefault("max_depth", 32)
	v.SetDefault("custom_types", []string{})
	v.SetDefault("rules", "expr")
	v.SetDefault("http.enabled", false)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("http.max_bytes", int64(4<<20))
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.max_cost", int64(64<<20))
	v.SetDefault("cache.ttl", time.Duration(0))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("formfate")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/formfate")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	cfg := Config{
		LogLevel:    v.GetString("log_level"),
		Format:      strings.ToLower(v.GetString("format")),
		MaxDepth:    v.GetInt("max_depth"),
		CustomTypes: v.GetStringSlice("custom_types"),
		Rules:       strings.ToLower(v.GetString("rules")),
		HTTP: HTTPConfig{
			Enabled:  v.GetBool("http.enabled"),
			Timeout:  v.GetDuration("http.timeout"),
			MaxBytes: v.GetInt64("http.max_bytes"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			MaxCost: v.GetInt64("cache.max_cost"),
			TTL:     v.GetDuration("cache.ttl"),
		},
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, ok := logLevelMapping[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	switch c.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: format must be json or yaml, got %q", c.Format)
	}
	switch c.Rules {
	case "expr", "none":
	default:
		return fmt.Errorf("config: rules must be expr or none, got %q", c.Rules)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("config: max_depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}
