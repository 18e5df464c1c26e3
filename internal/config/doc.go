// SPDX-License-Identifier: MPL-2.0

// Package config loads the optional cbuild.cue project file.
//
// The file is validated against an embedded CUE schema (config_schema.cue)
// and merged over the built-in defaults with Viper. A missing file is not an
// error; cbuild then runs with the NChess layout and toolchain auto-detection.
package config
