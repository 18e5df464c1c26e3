// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"

	"github.com/nchess/cbuild/internal/runner"
)

var (
	// ErrNoSourcesFound is returned when the source directory has no matching files.
	ErrNoSourcesFound = errors.New("no source files found")
	// ErrCompilationFailed is returned when the compiler rejects a source file.
	ErrCompilationFailed = errors.New("compilation failed")
	// ErrArchiveCreationFailed is returned when the archiver fails.
	ErrArchiveCreationFailed = errors.New("archive creation failed")
	// ErrLibraryMissing is returned when tests are requested before the library exists.
	ErrLibraryMissing = errors.New("library not found")
	// ErrNoTestSourcesFound is returned when the test directory has no matching files.
	ErrNoTestSourcesFound = errors.New("no test source files found")
	// ErrLinkFailed is returned when the test executable cannot be linked.
	ErrLinkFailed = errors.New("link failed")
	// ErrTestsFailed is returned when the test executable exits non-zero.
	ErrTestsFailed = errors.New("tests failed")
)

const (
	StepCompile = "compile"
	StepArchive = "archive"
	StepLink    = "link"
	StepRun     = "run"
)

type (
	// StepError reports a failed external tool invocation.
	StepError struct {
		Step     string
		Target   string
		ExitCode runner.ExitCode
		// Err is the taxonomy sentinel for the step.
		Err error
		// Cause is set when the tool could not be started at all.
		Cause error
	}

	// TestsFailedError carries the test executable's exit code.
	TestsFailedError struct {
		ExitCode runner.ExitCode
	}

	// MissingError names the directory or file whose absence stopped the pipeline.
	MissingError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Step, e.Target, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v (exit code %d)", e.Step, e.Target, e.Err, e.ExitCode)
}

// Unwrap exposes the sentinel and, if present, the start failure.
func (e *StepError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Error implements the error interface.
func (e *TestsFailedError) Error() string {
	return fmt.Sprintf("tests failed with exit code: %d", e.ExitCode)
}

// Unwrap returns ErrTestsFailed for errors.Is() compatibility.
func (e *TestsFailedError) Unwrap() error { return ErrTestsFailed }

// Error implements the error interface.
func (e *MissingError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Path)
}

// Unwrap returns the sentinel.
func (e *MissingError) Unwrap() error { return e.Err }
