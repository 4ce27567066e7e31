// Package config loads librarydb settings.
//
// Sources, lowest precedence first:
//   - built-in defaults
//   - an optional YAML file
//   - LIBRARY_* environment variables (a `.env` file is loaded first when present)
//
// Nested keys in environment variables use a double underscore:
// LIBRARY_DATABASE__PATH sets database.path.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LIBRARY_"

type Config struct {
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log" validate:"required"`
	Policy   PolicyConfig   `koanf:"policy" validate:"required"`
	Sweep    SweepConfig    `koanf:"sweep" validate:"required"`
}

type DatabaseConfig struct {
	Path        string        `koanf:"path" validate:"required"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// PolicyConfig holds the circulation rules not stored per membership type.
type PolicyConfig struct {
	ReservationHoldDays int `koanf:"reservation_hold_days" validate:"gte=1"`
	MaxRenewals         int `koanf:"max_renewals" validate:"gte=0"`
}

type SweepConfig struct {
	Schedule string `koanf:"schedule" validate:"required"`
}

func defaults() map[string]any {
	return map[string]any{
		"database": map[string]any{
			"path":         "library.db",
			"busy_timeout": "5s",
		},
		"log": map[string]any{
			"level":  "info",
			"format": "console",
		},
		"policy": map[string]any{
			"reservation_hold_days": 7,
			"max_renewals":          2,
		},
		"sweep": map[string]any{
			"schedule": "@daily",
		},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(fileProvider(path), yamlParser{}); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// koanf adapters
// ---------------------------------------------------------------------------

type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) { return m, nil }

type fileProvider string

func (f fileProvider) ReadBytes() ([]byte, error) { return os.ReadFile(string(f)) }

func (f fileProvider) Read() (map[string]any, error) {
	return nil, fmt.Errorf("file provider does not support Read")
}

type yamlParser struct{}

func (yamlParser) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (yamlParser) Marshal(m map[string]any) ([]byte, error) { return yaml.Marshal(m) }
