// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a cbuild run:
//   - CUE config parsing and schema validation
//   - vcvarsall environment scraping
//   - Source discovery and a full build against a recording runner
//
// To generate a PGO profile, run:
//
//	go test ./internal/benchmark -bench=. -cpuprofile=default.pgo
package benchmark
