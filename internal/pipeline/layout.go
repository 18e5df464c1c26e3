// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nchess/cbuild/pkg/platform"
	"github.com/nchess/cbuild/pkg/toolchain"
)

const (
	DefaultSourceDir      = "nchess"
	DefaultTestDir        = "test"
	DefaultBuildDir       = "build"
	DefaultLibraryName    = "nchess"
	DefaultTestExecutable = "test_nchess"
	DefaultSourcePattern  = "*.c"
)

// ErrInvalidLayout is returned by Layout.Validate.
var ErrInvalidLayout = errors.New("invalid layout")

type (
	// Layout names the project's directories and artifacts, independent of toolchain.
	Layout struct {
		SourceDir      string
		TestDir        string
		BuildDir       string
		LibraryName    string
		TestExecutable string
		// SourcePattern is a doublestar glob matched inside SourceDir and TestDir.
		SourcePattern string
	}

	// ArtifactPaths are the concrete output locations for one profile on one host.
	ArtifactPaths struct {
		Root           string
		ObjDir         string
		TestObjDir     string
		BinDir         string
		Archive        string
		TestExecutable string
	}

	// InvalidLayoutError names the offending field.
	InvalidLayoutError struct {
		Field  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidLayoutError) Error() string {
	return fmt.Sprintf("invalid layout: %s %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidLayout for errors.Is() compatibility.
func (e *InvalidLayoutError) Unwrap() error { return ErrInvalidLayout }

// DefaultLayout returns the layout of the NChess source tree.
func DefaultLayout() Layout {
	return Layout{
		SourceDir:      DefaultSourceDir,
		TestDir:        DefaultTestDir,
		BuildDir:       DefaultBuildDir,
		LibraryName:    DefaultLibraryName,
		TestExecutable: DefaultTestExecutable,
		SourcePattern:  DefaultSourcePattern,
	}
}

// Validate checks every field is set and the pattern is a valid glob.
func (l Layout) Validate() error {
	fields := []struct{ name, value string }{
		{"source_dir", l.SourceDir},
		{"test_dir", l.TestDir},
		{"build_dir", l.BuildDir},
		{"library_name", l.LibraryName},
		{"test_executable", l.TestExecutable},
		{"source_pattern", l.SourcePattern},
	}
	for _, f := range fields {
		if f.value == "" {
			return &InvalidLayoutError{Field: f.name, Reason: "must not be empty"}
		}
	}
	for _, f := range fields[3:5] {
		if strings.ContainsAny(f.value, `/\`) {
			return &InvalidLayoutError{Field: f.name, Reason: "must be a file name, not a path"}
		}
		if platform.IsWindowsReservedName(f.value) {
			return &InvalidLayoutError{Field: f.name, Reason: fmt.Sprintf("%q is a reserved name on Windows", f.value)}
		}
	}
	if !doublestar.ValidatePattern(l.SourcePattern) {
		return &InvalidLayoutError{Field: "source_pattern", Reason: fmt.Sprintf("%q is not a valid glob", l.SourcePattern)}
	}
	return nil
}

// Paths computes the artifact locations for profile on goos.
func (l Layout) Paths(profile toolchain.Profile, goos string) ArtifactPaths {
	fam := profile.Family()
	bin := filepath.Join(l.BuildDir, "bin")
	return ArtifactPaths{
		Root:           l.BuildDir,
		ObjDir:         filepath.Join(l.BuildDir, "obj"),
		TestObjDir:     filepath.Join(l.BuildDir, "test_obj"),
		BinDir:         bin,
		Archive:        filepath.Join(bin, fam.ArchiveName(l.LibraryName)),
		TestExecutable: filepath.Join(bin, l.TestExecutable+fam.ExecutableSuffix(goos)),
	}
}
