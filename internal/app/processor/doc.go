// SPDX-License-Identifier: MPL-2.0

// Package processor runs an ordered list of build commands against a single
// resolved toolchain. It validates every command token first, resolves the
// toolchain once, then dispatches the commands in order and stops at the
// first failure without undoing what earlier commands produced.
package processor
