// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"slices"

	"github.com/nchess/cbuild/pkg/platform"
)

const (
	// FamilyPOSIX covers gcc-compatible drivers: -c/-o syntax, ar archives, driver-linked executables.
	FamilyPOSIX FamilyKind = iota + 1
	// FamilyMSVC covers cl.exe: /Fo syntax, lib.exe archives, link.exe executables.
	FamilyMSVC
)

// msvcLinker is the dedicated linker driver shipped with MSVC.
const msvcLinker = "link"

type (
	// FamilyKind tags a Family variant.
	FamilyKind int

	// Command is a program name plus its argument vector.
	Command struct {
		Name string
		Args []string
	}

	// Family is the invocation shape shared by a group of compilers.
	// The set of implementations is closed: posixFamily and msvcFamily.
	Family interface {
		// Kind returns the variant tag.
		Kind() FamilyKind
		// CompileCommand compiles exactly one source file to one object file without linking.
		CompileCommand(driver string, cflags []string, src, obj string) Command
		// ArchiveCommand bundles objects, in order, into a static archive.
		ArchiveCommand(archiver string, flags []string, out string, objs []string) Command
		// LinkCommand links objects and archives into an executable.
		LinkCommand(driver string, cflags []string, objs, libs []string, out string) Command
		// IncludeFlag returns the flag adding dir to the header search path.
		IncludeFlag(dir string) string
		// ObjectSuffix is the object file extension, including the dot.
		ObjectSuffix() string
		// ArchiveName returns the static archive file name for a library.
		ArchiveName(lib string) string
		// ExecutableSuffix is the executable extension on the given GOOS.
		ExecutableSuffix(goos string) string

		sealed()
	}

	posixFamily struct{}

	msvcFamily struct{}
)

// String returns the family label.
func (k FamilyKind) String() string {
	switch k {
	case FamilyPOSIX:
		return "posix"
	case FamilyMSVC:
		return "msvc"
	default:
		return "unknown"
	}
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (posixFamily) Kind() FamilyKind { return FamilyPOSIX }

func (posixFamily) CompileCommand(driver string, cflags []string, src, obj string) Command {
	args := slices.Clone(cflags)
	args = append(args, "-c", "-o", obj, src)
	return Command{Name: driver, Args: args}
}

func (posixFamily) ArchiveCommand(archiver string, flags []string, out string, objs []string) Command {
	args := slices.Clone(flags)
	args = append(args, out)
	args = append(args, objs...)
	return Command{Name: archiver, Args: args}
}

func (posixFamily) LinkCommand(driver string, cflags []string, objs, libs []string, out string) Command {
	args := slices.Clone(cflags)
	args = append(args, "-o", out)
	args = append(args, objs...)
	args = append(args, libs...)
	return Command{Name: driver, Args: args}
}

func (posixFamily) IncludeFlag(dir string) string { return "-I" + dir }

func (posixFamily) ObjectSuffix() string { return ".o" }

func (posixFamily) ArchiveName(lib string) string { return "lib" + lib + ".a" }

func (posixFamily) ExecutableSuffix(goos string) string {
	if platform.IsWindows(goos) {
		return ".exe"
	}
	return ""
}

func (posixFamily) sealed() {}

func (msvcFamily) Kind() FamilyKind { return FamilyMSVC }

func (msvcFamily) CompileCommand(driver string, cflags []string, src, obj string) Command {
	args := slices.Clone(cflags)
	args = append(args, "/Fo"+obj, "/c", src)
	return Command{Name: driver, Args: args}
}

func (msvcFamily) ArchiveCommand(archiver string, flags []string, out string, objs []string) Command {
	args := slices.Clone(flags)
	args = append(args, "/OUT:"+out)
	args = append(args, objs...)
	return Command{Name: archiver, Args: args}
}

// LinkCommand ignores the compiler driver and cflags: link.exe takes neither.
func (msvcFamily) LinkCommand(_ string, _ []string, objs, libs []string, out string) Command {
	args := []string{"/nologo", "/OUT:" + out}
	args = append(args, objs...)
	args = append(args, libs...)
	return Command{Name: msvcLinker, Args: args}
}

func (msvcFamily) IncludeFlag(dir string) string { return "/I" + dir }

func (msvcFamily) ObjectSuffix() string { return ".obj" }

func (msvcFamily) ArchiveName(lib string) string { return lib + ".lib" }

func (msvcFamily) ExecutableSuffix(string) string { return ".exe" }

func (msvcFamily) sealed() {}
