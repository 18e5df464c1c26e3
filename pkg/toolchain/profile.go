// SPDX-License-Identifier: MPL-2.0

package toolchain

import "slices"

// Profile is the immutable invocation description of one compiler.
// Fields are unexported; accessors return copies so a selected profile
// cannot be mutated by its consumers.
type Profile struct {
	id           ID
	compiler     string
	baseFlags    []string
	debugFlags   []string
	releaseFlags []string
	archiver     string
	archiveFlags []string
	family       Family
}

// ProfileSpec is the literal used to construct a Profile.
type ProfileSpec struct {
	ID           ID
	Compiler     string
	BaseFlags    []string
	DebugFlags   []string
	ReleaseFlags []string
	Archiver     string
	ArchiveFlags []string
	Family       FamilyKind
}

// NewProfile builds a Profile from spec, deep-copying every slice.
// An unrecognized Family falls back to FamilyPOSIX.
func NewProfile(spec ProfileSpec) Profile {
	return Profile{
		id:           spec.ID,
		compiler:     spec.Compiler,
		baseFlags:    slices.Clone(spec.BaseFlags),
		debugFlags:   slices.Clone(spec.DebugFlags),
		releaseFlags: slices.Clone(spec.ReleaseFlags),
		archiver:     spec.Archiver,
		archiveFlags: slices.Clone(spec.ArchiveFlags),
		family:       familyFor(spec.Family),
	}
}

func familyFor(kind FamilyKind) Family {
	if kind == FamilyMSVC {
		return msvcFamily{}
	}
	return posixFamily{}
}

// ID returns the profile identifier.
func (p Profile) ID() ID { return p.id }

// Compiler returns the compiler driver executable name.
func (p Profile) Compiler() string { return p.compiler }

// Archiver returns the archiver executable name.
func (p Profile) Archiver() string { return p.archiver }

// Family returns the invocation-shape variant.
func (p Profile) Family() Family { return p.family }

// BaseFlags returns a copy of the always-applied flags.
func (p Profile) BaseFlags() []string { return slices.Clone(p.baseFlags) }

// DebugFlags returns a copy of the debug-only flags.
func (p Profile) DebugFlags() []string { return slices.Clone(p.debugFlags) }

// ReleaseFlags returns a copy of the release-only flags.
func (p Profile) ReleaseFlags() []string { return slices.Clone(p.releaseFlags) }

// ArchiveFlags returns a copy of the archiver's fixed flags.
func (p Profile) ArchiveFlags() []string { return slices.Clone(p.archiveFlags) }

// CFlags returns base flags followed by the flag set selected by mode.
func (p Profile) CFlags(mode Mode) []string {
	flags := slices.Clone(p.baseFlags)
	if mode == Debug {
		return append(flags, p.debugFlags...)
	}
	return append(flags, p.releaseFlags...)
}

// CompileCommand returns the invocation compiling src into obj.
func (p Profile) CompileCommand(cflags []string, src, obj string) Command {
	return p.family.CompileCommand(p.compiler, cflags, src, obj)
}

// ArchiveCommand returns the invocation archiving objs into out.
func (p Profile) ArchiveCommand(out string, objs []string) Command {
	return p.family.ArchiveCommand(p.archiver, p.archiveFlags, out, objs)
}

// LinkCommand returns the invocation linking objs and libs into out.
func (p Profile) LinkCommand(cflags []string, objs, libs []string, out string) Command {
	return p.family.LinkCommand(p.compiler, cflags, objs, libs, out)
}

// RequiredTools lists every executable the profile invokes, compiler first.
func (p Profile) RequiredTools() []string {
	tools := []string{p.compiler, p.archiver}
	if p.family.Kind() == FamilyMSVC {
		tools = append(tools, msvcLinker)
	}
	return tools
}
