package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load loads the application configuration.
// Search order: customPath -> ~/.flappy/config.yaml -> ./configs/flappy.yaml -> embedded default.
// Files are layered over Default, so a file only needs the keys it changes.
// FLAPPY_* environment variables are applied last.
func Load(customPath string) (AppConfig, error) {
	cfg := Default()

	switch {
	case customPath != "":
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
	default:
		if !loadOptional(userConfigPath("config.yaml"), &cfg) &&
			!loadOptional(filepath.Join("configs", "flappy.yaml"), &cfg) {
			if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
				cfg = Default() // Fallback to hardcoded if embed fails
			}
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseEnv applies FLAPPY_* environment overrides to target. Unset
// variables leave fields untouched.
func ParseEnv(target *AppConfig) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// loadOptional unmarshals path into cfg. Missing or broken files are skipped.
func loadOptional(path string, cfg *AppConfig) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	next := *cfg
	if err := yaml.Unmarshal(data, &next); err != nil {
		return false
	}
	*cfg = next
	return true
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", filename)
}
