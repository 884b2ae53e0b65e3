// Package config loads YAML files holding document-generation defaults.
// Semantic validation of page options happens at export time; this package
// only enforces structural limits.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/casekit/go-legalpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxDocumentTypeLength = 100  // "Residential Lease Agreement"
	MaxPageSizeLength     = 10   // "letter", "a4", "legal"
	MaxLineSpacingLength  = 10   // "single", "one-half", "double"
	MaxAffixLength        = 30   // page number prefix/suffix
	MaxPathLength         = 4096 // output dir, audit db path
)

// Config holds document-generation defaults loaded from YAML. CLI flags
// override these values field by field.
type Config struct {
	Document  DocumentConfig   `yaml:"document"`
	Margins   *MarginsConfig   `yaml:"margins"`
	Numbering *NumberingConfig `yaml:"numbering"`
	Output    OutputConfig     `yaml:"output"`
	Audit     AuditConfig      `yaml:"audit"`
}

// DocumentConfig defines page typography defaults.
type DocumentConfig struct {
	Type        string  `yaml:"type"`        // Document title, e.g. "Lease Agreement"
	PageSize    string  `yaml:"pageSize"`    // "letter", "a4", "legal" (empty = letter)
	FontSize    float64 `yaml:"fontSize"`    // points, 8-24 (0 = 12)
	LineSpacing string  `yaml:"lineSpacing"` // "single", "one-half", "double"
}

// MarginsConfig defines per-side page margins in points.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// NumberingConfig defines page numbering defaults.
type NumberingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Position string `yaml:"position"` // "bottom-left", "bottom-center", "bottom-right"
	Format   string `yaml:"format"`   // "numeric", "roman", "alpha"
	Prefix   string `yaml:"prefix"`
	Suffix   string `yaml:"suffix"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// AuditConfig defines the export ledger options.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite database path (empty = legalpdf-audit.db)
}

// Validate checks field lengths. Called automatically by Load, but available
// for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("document.type", c.Document.Type, MaxDocumentTypeLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.pageSize", c.Document.PageSize, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.lineSpacing", c.Document.LineSpacing, MaxLineSpacingLength); err != nil {
		return err
	}
	if c.Numbering != nil {
		if err := validateFieldLength("numbering.prefix", c.Numbering.Prefix, MaxAffixLength); err != nil {
			return err
		}
		if err := validateFieldLength("numbering.suffix", c.Numbering.Suffix, MaxAffixLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("audit.path", c.Audit.Path, MaxPathLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Default returns a neutral configuration: library defaults everywhere,
// audit disabled.
func Default() *Config {
	return &Config{}
}

// Load loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's searched by name in standard locations. A missing file is
// an error; there is no silent fallback.
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-legalpdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-legalpdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
