// SPDX-License-Identifier: MPL-2.0

// Package runner executes external tools (compilers, archivers, linkers and
// test binaries) on behalf of the build pipeline.
//
// Two execution modes exist. Capture collects combined stdout/stderr so the
// caller can print it verbatim on failure; Attach connects the child to the
// parent's standard streams for interactive output. Both report the child's
// exit status in a Result instead of an error: a non-zero exit is a normal
// outcome, while failing to start the process sets Result.Error.
package runner
