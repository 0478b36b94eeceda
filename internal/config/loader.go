package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thruflo/openspec-loop/internal/logging"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultBackendBinary = "bd"
	DefaultStatsLines    = 10
	DefaultHostURL       = "http://127.0.0.1:4096"
	DefaultService       = "openspec-loop"
	DefaultNotifyTitle   = "OpenCode"
	DefaultLogLevel      = "warn"
)

// HostURLEnv overrides host.url when set.
const HostURLEnv = "OPENCODE_SERVER_URL"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Backend: Backend{
			Binary:     DefaultBackendBinary,
			StatsLines: DefaultStatsLines,
		},
		Host: Host{
			Kind:    HostOpenCode,
			URL:     DefaultHostURL,
			Service: DefaultService,
		},
		Notify: Notify{
			Enabled: true,
			Title:   DefaultNotifyTitle,
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Path returns the location of the config file under dir.
func Path(dir string) string {
	return filepath.Join(dir, ".opencode", "openspec-loop.yaml")
}

// LoadConfig reads and parses .opencode/openspec-loop.yaml from dir.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path(dir))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if url := os.Getenv(HostURLEnv); url != "" {
		cfg.Host.URL = url
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.Backend.Binary == "" {
		return ValidationError{Field: "backend.binary", Message: "required field is empty"}
	}
	if cfg.Backend.StatsLines <= 0 {
		return ValidationError{Field: "backend.stats_lines", Message: "must be positive"}
	}
	switch cfg.Host.Kind {
	case HostOpenCode:
		if cfg.Host.URL == "" {
			return ValidationError{Field: "host.url", Message: "required for opencode host"}
		}
	case HostHook:
	default:
		return ValidationError{Field: "host.kind", Message: fmt.Sprintf("unknown kind %q", cfg.Host.Kind)}
	}
	if cfg.Host.Service == "" {
		return ValidationError{Field: "host.service", Message: "required field is empty"}
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", cfg.Log.Level)}
	}
	return nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
