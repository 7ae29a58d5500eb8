// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/report-cards/internal/batch"
	"github.com/jonathan/report-cards/internal/raster"
	"github.com/jonathan/report-cards/internal/rendering"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	AssetRoot   string `json:"asset_root,omitempty"`   // Directory relative asset paths are resolved against

	// Shared artwork
	PrincipalSignature string `json:"principal_signature,omitempty"` // Used when the database has none
	DefaultBackground  string `json:"default_background,omitempty"`  // Drawn when a grade has no background

	// Output
	OutputDir string   `json:"output_dir,omitempty"`                              // Where single reports are written
	Formats   []string `json:"formats,omitempty" validate:"omitempty,dive,required"` // PDF and/or IMAGE
	Workers   int      `json:"workers,omitempty" validate:"gte=0,lte=64"`          // Concurrent renders in a batch

	// Image conversion
	ImageDPI     int    `json:"image_dpi,omitempty" validate:"gte=0,lte=1200"` // Page image resolution
	PdftoppmPath string `json:"pdftoppm_path,omitempty"`                         // pdftoppm binary

	PreparedBy string `json:"prepared_by,omitempty"` // Printed as "Prepared by"
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed debug information

	// Signatures tunes where the three signatures sit. Omitted means the default layout.
	Signatures *rendering.Layout `json:"signatures,omitempty"`
}

// Defaults returns the values used when neither the config file nor a flag sets them.
func Defaults() Config {
	return Config{
		OutputDir:    ".",
		Formats:      []string{batch.FormatPDF},
		Workers:      batch.DefaultWorkers,
		ImageDPI:     raster.DefaultDPI,
		PdftoppmPath: raster.DefaultBinary,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := batch.ParseFormats(c.Formats); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate paths exist (if specified)
	if c.AssetRoot != "" {
		info, err := os.Stat(c.AssetRoot)
		if err != nil {
			return fmt.Errorf("config error: asset root not found: %s", c.AssetRoot)
		}
		if !info.IsDir() {
			return fmt.Errorf("config error: asset root is not a directory: %s", c.AssetRoot)
		}
	}

	return nil
}

// FormatSet parses the configured formats.
func (c *Config) FormatSet() (batch.FormatSet, error) {
	return batch.ParseFormats(c.Formats)
}

// Layout returns the configured signature layout or the default one.
func (c *Config) Layout() rendering.Layout {
	if c.Signatures != nil {
		return *c.Signatures
	}
	return rendering.DefaultLayout()
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AssetRoot == "" {
		result.AssetRoot = defaults.AssetRoot
	}
	if result.PrincipalSignature == "" {
		result.PrincipalSignature = defaults.PrincipalSignature
	}
	if result.DefaultBackground == "" {
		result.DefaultBackground = defaults.DefaultBackground
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.PdftoppmPath == "" {
		result.PdftoppmPath = defaults.PdftoppmPath
	}
	if result.PreparedBy == "" {
		result.PreparedBy = defaults.PreparedBy
	}

	if len(result.Formats) == 0 {
		result.Formats = defaults.Formats
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.ImageDPI == 0 {
		result.ImageDPI = defaults.ImageDPI
	}

	if result.Signatures == nil {
		result.Signatures = defaults.Signatures
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
