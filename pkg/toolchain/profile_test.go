// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"slices"
	"testing"
)

func TestProfile_CFlags(t *testing.T) {
	t.Parallel()

	p, _ := DefaultRegistry().Lookup(GCC)

	debug := p.CFlags(Debug)
	want := []string{"-Wall", "-Wextra", "-std=c11", "-g", "-O0"}
	if !slices.Equal(debug, want) {
		t.Errorf("CFlags(Debug) = %v, want %v", debug, want)
	}

	release := p.CFlags(Release)
	if !slices.Equal(release[:3], p.BaseFlags()) {
		t.Errorf("CFlags(Release) should start with base flags, got %v", release)
	}
	if !slices.Equal(release[3:], p.ReleaseFlags()) {
		t.Errorf("CFlags(Release) should end with release flags, got %v", release)
	}
}

func TestProfile_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	p, _ := DefaultRegistry().Lookup(MSVC)

	base := p.BaseFlags()
	base[0] = "/mutated"
	if p.BaseFlags()[0] != "/nologo" {
		t.Error("BaseFlags() must return a copy")
	}

	flags := p.CFlags(Debug)
	flags[0] = "/mutated"
	if p.CFlags(Debug)[0] != "/nologo" {
		t.Error("CFlags() must return a fresh slice")
	}

	arch := p.ArchiveFlags()
	arch[0] = "/mutated"
	if p.ArchiveFlags()[0] != "/nologo" {
		t.Error("ArchiveFlags() must return a copy")
	}
}

func TestNewProfile_CopiesSpecSlices(t *testing.T) {
	t.Parallel()

	spec := ProfileSpec{ID: GCC, Compiler: "gcc", BaseFlags: []string{"-Wall"}}
	p := NewProfile(spec)
	spec.BaseFlags[0] = "-w"

	if p.BaseFlags()[0] != "-Wall" {
		t.Error("NewProfile must not alias the spec's slices")
	}
	if p.Family().Kind() != FamilyPOSIX {
		t.Error("zero FamilyKind should fall back to POSIX")
	}
}

func TestProfile_RequiredTools(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	gcc, _ := reg.Lookup(GCC)
	msvc, _ := reg.Lookup(MSVC)

	if got := gcc.RequiredTools(); !slices.Equal(got, []string{"gcc", "ar"}) {
		t.Errorf("gcc RequiredTools() = %v", got)
	}
	if got := msvc.RequiredTools(); !slices.Equal(got, []string{"cl", "lib", "link"}) {
		t.Errorf("msvc RequiredTools() = %v", got)
	}
}
