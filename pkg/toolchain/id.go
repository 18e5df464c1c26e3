// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// GCC is the GNU C compiler profile.
	GCC ID = "gcc"
	// Clang is the LLVM clang profile.
	Clang ID = "clang"
	// MSVC is the Microsoft Visual C++ profile (cl.exe, lib.exe, link.exe).
	MSVC ID = "msvc"
)

// ErrUnknownToolchain is returned when an identifier is not one of the registered profiles.
var ErrUnknownToolchain = errors.New("unknown toolchain")

type (
	// ID identifies a toolchain profile. The zero value means "auto-detect".
	ID string

	// InvalidIDError is returned when an ID is not recognized.
	// It wraps ErrUnknownToolchain for errors.Is() compatibility.
	InvalidIDError struct {
		Value ID
	}
)

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("unknown toolchain %q (available: %s)", e.Value, strings.Join(idStrings(KnownIDs()), ", "))
}

// Unwrap returns ErrUnknownToolchain so callers can use errors.Is for programmatic detection.
func (e *InvalidIDError) Unwrap() error { return ErrUnknownToolchain }

// KnownIDs returns the built-in identifiers in detection priority order.
func KnownIDs() []ID {
	return []ID{GCC, Clang, MSVC}
}

// ParseID normalizes a user-supplied identifier (case-insensitive, surrounding
// whitespace ignored). An empty string yields the zero ID.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if id == "" {
		return "", nil
	}
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate returns nil if the ID is one of the built-in identifiers.
func (id ID) Validate() error {
	switch id {
	case GCC, Clang, MSVC:
		return nil
	default:
		return &InvalidIDError{Value: id}
	}
}

// IsAuto reports whether the ID requests auto-detection.
func (id ID) IsAuto() bool { return id == "" }

// String returns the identifier as written on the command line.
func (id ID) String() string { return string(id) }

func idStrings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
