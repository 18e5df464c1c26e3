// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
)

const (
	// Release selects the profile's optimized flag set.
	Release Mode = iota
	// Debug selects the profile's debug flag set.
	Debug
)

// ErrInvalidMode is returned when a Mode value is not Release or Debug.
var ErrInvalidMode = errors.New("invalid build mode")

type (
	// Mode selects which flag set is concatenated with a profile's base flags.
	Mode int

	// InvalidModeError is returned when a Mode value is not recognized.
	InvalidModeError struct {
		Value Mode
	}
)

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid build mode %d (valid: 0=release, 1=debug)", e.Value)
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// Validate returns nil for Release and Debug.
func (m Mode) Validate() error {
	switch m {
	case Release, Debug:
		return nil
	default:
		return &InvalidModeError{Value: m}
	}
}

// String returns "release" or "debug".
func (m Mode) String() string {
	switch m {
	case Release:
		return "release"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// Banner returns the upper-case label used in progress headers.
func (m Mode) Banner() string {
	switch m {
	case Debug:
		return "DEBUG"
	default:
		return "RELEASE"
	}
}
