// SPDX-License-Identifier: MPL-2.0

// Package detect selects the toolchain profile for a run: either the one the
// user named, after checking its compiler is installed, or the first
// available one in priority order (MSVC on Windows, then gcc, then clang).
// Selecting MSVC outside a developer prompt also imports the vcvarsall
// environment.
package detect
