// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	NoToolchainFoundId Id = iota + 1
	UnknownToolchainId
	ToolchainUnavailableId
	MSVCBootstrapFailedId
	NoSourcesFoundId
	CompilationFailedId
	ArchiveCreationFailedId
	LibraryMissingId
	NoTestSourcesFoundId
	LinkFailedId
	TestsFailedId
	UnknownCommandId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	noToolchainFoundIssue = &Issue{
		id: NoToolchainFoundId,
		mdMsg: `
# No C compiler found!

cbuild looked for a toolchain in this order and found none:

1. MSVC (Windows only): ` + "`cl`" + ` on PATH, then a Visual Studio installation via vswhere
2. ` + "`gcc`" + ` on PATH
3. ` + "`clang`" + ` on PATH

## Things you can try:
- Install GCC or Clang and make sure it is on your PATH:
~~~
$ sudo apt install build-essential     # Debian/Ubuntu
$ xcode-select --install               # macOS
~~~

- On Windows, install the "Desktop development with C++" workload of Visual Studio

- Or name the compiler explicitly:
~~~
$ cbuild --compiler=clang build
~~~`,
	}

	unknownToolchainIssue = &Issue{
		id: UnknownToolchainId,
		mdMsg: `
# Unknown compiler!

The value passed to ` + "`--compiler`" + ` (or set as ` + "`compiler`" + ` in cbuild.cue) is not a known toolchain.

## Available compilers:
- gcc
- clang
- msvc

## Things you can try:
- List the toolchains and whether they are installed:
~~~
$ cbuild toolchains
~~~`,
	}

	toolchainUnavailableIssue = &Issue{
		id: ToolchainUnavailableId,
		mdMsg: `
# Compiler not found in PATH!

The requested toolchain is known, but its compiler driver could not be found.

## Things you can try:
- Check that the compiler is installed and on your PATH:
~~~
$ which gcc clang
~~~

- Drop ` + "`--compiler`" + ` to let cbuild pick whatever is installed
- For MSVC, run cbuild from a Developer Command Prompt so ` + "`cl.exe`" + ` is on PATH`,
	}

	msvcBootstrapFailedIssue = &Issue{
		id: MSVCBootstrapFailedId,
		mdMsg: `
# Failed to set up the MSVC environment!

cl.exe needs the INCLUDE and LIB variables that vcvarsall.bat provides.
cbuild tried to import them automatically and failed.

## Things you can try:
- Run cbuild from a **Developer Command Prompt for VS**
- Or from an **x64 Native Tools Command Prompt for VS**
- Check that vswhere.exe exists under
  ` + "`%ProgramFiles(x86)%\\Microsoft Visual Studio\\Installer`",
		extLinks: []HttpLink{"https://learn.microsoft.com/en-us/cpp/build/building-on-the-command-line"},
	}

	noSourcesFoundIssue = &Issue{
		id: NoSourcesFoundId,
		mdMsg: `
# No source files found!

The library source directory contains no files matching the source pattern.

## Things you can try:
- Run cbuild from the project root
- Check ` + "`layout.source_dir`" + ` and ` + "`layout.source_pattern`" + ` in cbuild.cue:
~~~
$ cbuild config show
~~~`,
	}

	compilationFailedIssue = &Issue{
		id: CompilationFailedId,
		mdMsg: `
# Compilation failed!

The compiler rejected a source file. Its diagnostics are printed above.

## Things you can try:
- Fix the reported errors and run the build again
- Re-run with ` + "`--verbose`" + ` to see the exact compiler command line
- Try a debug build, which disables optimizations:
~~~
$ cbuild build-debug
~~~`,
	}

	archiveCreationFailedIssue = &Issue{
		id: ArchiveCreationFailedId,
		mdMsg: `
# Failed to create the static library!

The archiver (` + "`ar`" + ` or ` + "`lib.exe`" + `) exited with an error.

## Things you can try:
- Make sure the archiver is installed next to your compiler
- Remove stale artifacts and rebuild:
~~~
$ cbuild clean build
~~~`,
	}

	libraryMissingIssue = &Issue{
		id: LibraryMissingId,
		mdMsg: `
# Library not built!

The tests link against the static library, which does not exist yet.

## Things you can try:
- Build before testing, in the same invocation:
~~~
$ cbuild build test
~~~`,
	}

	noTestSourcesFoundIssue = &Issue{
		id: NoTestSourcesFoundId,
		mdMsg: `
# No test sources found!

The test directory contains no files matching the source pattern.

## Things you can try:
- Check ` + "`layout.test_dir`" + ` in cbuild.cue
- Add at least one test file with a ` + "`main`" + ` function`,
	}

	linkFailedIssue = &Issue{
		id: LinkFailedId,
		mdMsg: `
# Linking the test executable failed!

The linker output is printed above.

## Things you can try:
- Rebuild the library with the same compiler you test with:
~~~
$ cbuild clean build test
~~~

- Check for undefined symbols between the tests and the library`,
	}

	testsFailedIssue = &Issue{
		id: TestsFailedId,
		mdMsg: `
# Tests failed!

The test executable ran and exited with a non-zero status.

## Things you can try:
- Read the test output above for the failing assertion
- Rebuild in debug mode to get symbols and disabled optimizations:
~~~
$ cbuild build-debug test-debug
~~~`,
	}

	unknownCommandIssue = &Issue{
		id: UnknownCommandId,
		mdMsg: `
# Unknown command!

Nothing was run: cbuild checks every command before executing any of them.

## Available commands:
- ` + "`clean`" + `        remove the build directory
- ` + "`build`" + `        build the library (release)
- ` + "`build-debug`" + `  build the library (debug)
- ` + "`test`" + `         build and run the tests (release)
- ` + "`test-debug`" + `   build and run the tests (debug)`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

cbuild.cue could not be parsed or does not match the schema.

## Things you can try:
- Check the file for CUE syntax errors
- Regenerate a default file:
~~~
$ cbuild config init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

cbuild could not create or remove files under the build directory.

## Things you can try:
- Check ownership of the build directory
- Make sure no running process (a debugger, an antivirus scanner) holds the files open`,
	}

	issues = map[Id]*Issue{
		noToolchainFoundIssue.Id():      noToolchainFoundIssue,
		unknownToolchainIssue.Id():      unknownToolchainIssue,
		toolchainUnavailableIssue.Id():  toolchainUnavailableIssue,
		msvcBootstrapFailedIssue.Id():   msvcBootstrapFailedIssue,
		noSourcesFoundIssue.Id():        noSourcesFoundIssue,
		compilationFailedIssue.Id():     compilationFailedIssue,
		archiveCreationFailedIssue.Id(): archiveCreationFailedIssue,
		libraryMissingIssue.Id():        libraryMissingIssue,
		noTestSourcesFoundIssue.Id():    noTestSourcesFoundIssue,
		linkFailedIssue.Id():            linkFailedIssue,
		testsFailedIssue.Id():           testsFailedIssue,
		unknownCommandIssue.Id():        unknownCommandIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
