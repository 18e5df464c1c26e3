// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes GOOS names and the Windows reserved device names that an
// artifact such as nul.lib or con.exe cannot use.
package platform
