// SPDX-License-Identifier: MPL-2.0

package detect

import (
	"errors"
	"fmt"

	"github.com/nchess/cbuild/internal/issue"
	"github.com/nchess/cbuild/internal/msvcenv"
	"github.com/nchess/cbuild/pkg/toolchain"
)

var (
	// ErrToolchainUnavailable is returned when the named toolchain's compiler is not installed.
	ErrToolchainUnavailable = errors.New("toolchain not available")

	// ErrNoToolchainFound is returned when auto-detection finds no compiler at all.
	ErrNoToolchainFound = errors.New("no toolchain found")

	// ErrEnvironmentBootstrapFailed is returned when MSVC is selected but its
	// environment could not be set up.
	ErrEnvironmentBootstrapFailed = msvcenv.ErrBootstrapFailed
)

// UnavailableError reports a toolchain whose compiler driver is missing.
type UnavailableError struct {
	ID       toolchain.ID
	Compiler string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("compiler %q (%s) not found in PATH", e.ID, e.Compiler)
}

// Unwrap returns ErrToolchainUnavailable for errors.Is() compatibility.
func (e *UnavailableError) Unwrap() error { return ErrToolchainUnavailable }

// ParseRequest validates a toolchain name given by the user. An empty name
// requests auto-detection.
func ParseRequest(s string) (toolchain.ID, error) {
	id, err := toolchain.ParseID(s)
	if err != nil {
		return "", unknownToolchainError(err)
	}
	return id, nil
}

func unknownToolchainError(err error) error {
	return issue.NewErrorContext().
		WithOperation("resolve toolchain").
		WithSuggestion("Run 'cbuild toolchains' to list the available compilers").
		WithIssue(issue.UnknownToolchainId).
		Wrap(err).
		BuildError()
}

func unavailableError(p toolchain.Profile) error {
	return issue.NewErrorContext().
		WithOperation("resolve toolchain").
		WithResource(string(p.ID())).
		WithSuggestion(fmt.Sprintf("Install %s and make sure '%s' is on your PATH", p.ID(), p.Compiler())).
		WithSuggestion("Omit --compiler to auto-detect an installed toolchain").
		WithIssue(issue.ToolchainUnavailableId).
		Wrap(&UnavailableError{ID: p.ID(), Compiler: p.Compiler()}).
		BuildError()
}

func noToolchainError() error {
	return issue.NewErrorContext().
		WithOperation("detect toolchain").
		WithSuggestion("Install GCC, Clang, or MSVC and ensure it's in your PATH").
		WithIssue(issue.NoToolchainFoundId).
		Wrap(ErrNoToolchainFound).
		BuildError()
}

func bootstrapError(err error) error {
	return issue.NewErrorContext().
		WithOperation("set up MSVC environment").
		WithSuggestions(
			"Run cbuild from a 'Developer Command Prompt for VS'",
			"or from an 'x64 Native Tools Command Prompt for VS'",
		).
		WithIssue(issue.MSVCBootstrapFailedId).
		Wrap(err).
		BuildError()
}
