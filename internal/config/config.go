// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/nchess/cbuild/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "cbuild"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "cbuild"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// DefaultFile is the project file looked up in the working directory.
	DefaultFile = ConfigFileName + "." + ConfigFileExt
)

// ErrConfigExists is returned by WriteDefault when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// loadWithOptions performs option-driven config loading. It returns the
// effective configuration and the path it was read from ("" for defaults).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("compiler", defaults.Compiler)
	v.SetDefault("layout.source_dir", defaults.Layout.SourceDir)
	v.SetDefault("layout.test_dir", defaults.Layout.TestDir)
	v.SetDefault("layout.build_dir", defaults.Layout.BuildDir)
	v.SetDefault("layout.library_name", defaults.Layout.LibraryName)
	v.SetDefault("layout.test_executable", defaults.Layout.TestExecutable)
	v.SetDefault("layout.source_pattern", defaults.Layout.SourcePattern)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("probe_timeout", defaults.ProbeTimeout)

	resolvedPath := ""

	// An explicit --config path must exist; the implicit one is optional.
	path := opts.ConfigFilePath
	if path == "" {
		path = opts.lookupPath()
		if !fileExists(path) {
			path = ""
		}
	} else if !fileExists(path) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'cbuild config init' to create a default cbuild.cue").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", loadError(path, err)
		}
		resolvedPath = path
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", loadError(resolvedPath, err)
	}

	return &cfg, resolvedPath, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Run 'cbuild config show' to compare against the defaults").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, maxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatError(userValue.Err(), path)
	}

	// Concrete(false): every field is optional.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// cbuild project configuration\n")
	sb.WriteString("// Fields may be omitted; cbuild falls back to its built-in defaults.\n\n")

	if cfg.Compiler != "" {
		sb.WriteString(fmt.Sprintf("compiler: %q\n\n", cfg.Compiler))
	} else {
		sb.WriteString("// compiler: \"gcc\" // gcc | clang | msvc; auto-detected when unset\n\n")
	}

	sb.WriteString("layout: {\n")
	sb.WriteString(fmt.Sprintf("\tsource_dir:      %q\n", cfg.Layout.SourceDir))
	sb.WriteString(fmt.Sprintf("\ttest_dir:        %q\n", cfg.Layout.TestDir))
	sb.WriteString(fmt.Sprintf("\tbuild_dir:       %q\n", cfg.Layout.BuildDir))
	sb.WriteString(fmt.Sprintf("\tlibrary_name:    %q\n", cfg.Layout.LibraryName))
	sb.WriteString(fmt.Sprintf("\ttest_executable: %q\n", cfg.Layout.TestExecutable))
	sb.WriteString(fmt.Sprintf("\tsource_pattern:  %q\n", cfg.Layout.SourcePattern))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose:      %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString("}\n")

	sb.WriteString(fmt.Sprintf("\nprobe_timeout: %q\n", cfg.ProbeTimeout))

	return sb.String()
}
