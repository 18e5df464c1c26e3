// SPDX-License-Identifier: MPL-2.0

// Package pipeline compiles the library sources into a static archive and
// builds, links and runs the test executable against it.
//
// Every operation takes the active toolchain.Profile as an argument and
// recomputes its ArtifactPaths from it, so nothing in this package depends
// on which compiler was selected beyond what the profile's Family describes.
// Builds are unconditional: every source is recompiled on every call.
package pipeline
