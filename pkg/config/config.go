// Package config provides configuration management for the sss CLI tool
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
)

// Config represents the main configuration structure
type Config struct {
	Version  string          `json:"version"`
	Defaults DefaultSettings `json:"defaults"`
	Security SecurityConfig  `json:"security"`
	UI       UIConfig        `json:"ui"`
	Advanced AdvancedConfig  `json:"advanced"`
}

// DefaultSettings contains default values for split
type DefaultSettings struct {
	Parts     int    `json:"parts"`     // Default: 5
	Threshold int    `json:"threshold"` // Default: 3
	Encoding  string `json:"encoding"`  // hex or base64
}

// SecurityConfig contains security-related settings
type SecurityConfig struct {
	WipeMemory            bool `json:"wipe_memory"`              // Zero secrets after use
	DestroyInputOnRefresh bool `json:"destroy_input_on_refresh"` // Overwrite the input file after refresh
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor bool `json:"use_color"`
}

// AdvancedConfig contains experimental features
type AdvancedConfig struct {
	EnableExperimental bool `json:"enable_experimental"` // Enables share refresh
}

// SplitOptions are the split parameters after flags were parsed. Zero values
// are filled from the config.
type SplitOptions struct {
	Parts     int
	Threshold int
	Encoding  string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Parts:     5,
			Threshold: 3,
			Encoding:  EncodingHex,
		},
		Security: SecurityConfig{
			WipeMemory:            true,
			DestroyInputOnRefresh: false,
		},
		UI: UIConfig{
			UseColor: true,
		},
		Advanced: AdvancedConfig{
			EnableExperimental: false,
		},
	}
}

// Path returns the configuration file path
func Path() (string, error) {
	if customPath := os.Getenv("SSS_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sss", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "sss", "config.json"), nil
}

// Load reads the configuration from the default path. A missing file yields
// DefaultConfig.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path. Fields absent from the file keep
// their default values. A missing file yields DefaultConfig.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the default split parameters and encoding.
func (c *Config) Validate() error {
	d := c.Defaults
	if d.Parts < 1 || d.Parts > 255 {
		return fmt.Errorf("defaults.parts must be between 1 and 255 (got %d)", d.Parts)
	}
	if d.Threshold < 1 || d.Threshold > d.Parts {
		return fmt.Errorf("defaults.threshold must be between 1 and %d (got %d)", d.Parts, d.Threshold)
	}

	switch d.Encoding {
	case EncodingHex, EncodingBase64:
	default:
		return fmt.Errorf("defaults.encoding must be %q or %q (got %q)", EncodingHex, EncodingBase64, d.Encoding)
	}

	return nil
}

// ApplyDefaults fills unset split options from the config.
func (c *Config) ApplyDefaults(opts *SplitOptions) {
	if opts.Parts == 0 {
		opts.Parts = c.Defaults.Parts
	}

	if opts.Threshold == 0 {
		opts.Threshold = c.Defaults.Threshold
		if opts.Threshold > opts.Parts {
			opts.Threshold = opts.Parts
		}
	}

	if opts.Encoding == "" {
		opts.Encoding = c.Defaults.Encoding
	}
}
