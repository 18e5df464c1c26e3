// SPDX-License-Identifier: MPL-2.0

// Package toolchain describes the C compiler families cbuild can drive.
//
// A Profile is an immutable description of one compiler: its driver
// executable, base/debug/release flag sets and archiver invocation. Each
// profile carries a Family, a closed set of invocation shapes (POSIX-style
// gcc/clang vs. the MSVC cl/lib/link trio) that turns "compile this file",
// "archive these objects" and "link this executable" into argument vectors.
//
// The Registry holds the three built-in profiles keyed by ID.
package toolchain
