// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/nchess/cbuild/internal/msvcenv"
	"github.com/nchess/cbuild/internal/pipeline"
	"github.com/nchess/cbuild/pkg/toolchain"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette used for rendered output.
	ColorScheme string

	// Config is the effective cbuild configuration.
	Config struct {
		// Compiler is the default toolchain; empty means auto-detect.
		Compiler     string `json:"compiler" mapstructure:"compiler"`
		Layout       Layout `json:"layout" mapstructure:"layout"`
		UI           UI     `json:"ui" mapstructure:"ui"`
		ProbeTimeout string `json:"probe_timeout" mapstructure:"probe_timeout"`
	}

	// Layout mirrors pipeline.Layout with file-level field names.
	Layout struct {
		SourceDir      string `json:"source_dir" mapstructure:"source_dir"`
		TestDir        string `json:"test_dir" mapstructure:"test_dir"`
		BuildDir       string `json:"build_dir" mapstructure:"build_dir"`
		LibraryName    string `json:"library_name" mapstructure:"library_name"`
		TestExecutable string `json:"test_executable" mapstructure:"test_executable"`
		SourcePattern  string `json:"source_pattern" mapstructure:"source_pattern"`
	}

	// UI holds presentation settings.
	UI struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// InvalidConfigError wraps the first field that failed validation.
	InvalidConfigError struct {
		Field string
		Err   error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %v", e.Field, e.Err)
}

// Unwrap returns both ErrInvalidConfig and the field error.
func (e *InvalidConfigError) Unwrap() []error { return []error{ErrInvalidConfig, e.Err} }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Layout: FromLayout(pipeline.DefaultLayout()),
		UI: UI{
			ColorScheme: ColorSchemeAuto,
		},
		ProbeTimeout: msvcenv.DefaultProbeTimeout.String(),
	}
}

// FromLayout converts a pipeline layout into its file representation.
func FromLayout(l pipeline.Layout) Layout {
	return Layout{
		SourceDir:      l.SourceDir,
		TestDir:        l.TestDir,
		BuildDir:       l.BuildDir,
		LibraryName:    l.LibraryName,
		TestExecutable: l.TestExecutable,
		SourcePattern:  l.SourcePattern,
	}
}

// ToLayout converts the file representation into a pipeline layout.
func (l Layout) ToLayout() pipeline.Layout {
	return pipeline.Layout{
		SourceDir:      l.SourceDir,
		TestDir:        l.TestDir,
		BuildDir:       l.BuildDir,
		LibraryName:    l.LibraryName,
		TestExecutable: l.TestExecutable,
		SourcePattern:  l.SourcePattern,
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the ColorScheme is not one of the defined values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, string(c))
	}
}

// Toolchain parses Compiler. An empty value yields the zero ID (auto-detect).
func (c *Config) Toolchain() (toolchain.ID, error) {
	if c.Compiler == "" {
		return "", nil
	}
	return toolchain.ParseID(c.Compiler)
}

// Timeout parses ProbeTimeout, falling back to the default when unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ProbeTimeout == "" {
		return msvcenv.DefaultProbeTimeout, nil
	}
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

// Validate checks the constraints CUE does not express.
func (c *Config) Validate() error {
	if _, err := c.Toolchain(); err != nil {
		return &InvalidConfigError{Field: "compiler", Err: err}
	}
	if err := c.Layout.ToLayout().Validate(); err != nil {
		return &InvalidConfigError{Field: "layout", Err: err}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		return &InvalidConfigError{Field: "ui.color_scheme", Err: err}
	}
	if _, err := c.Timeout(); err != nil {
		return &InvalidConfigError{Field: "probe_timeout", Err: err}
	}
	return nil
}
