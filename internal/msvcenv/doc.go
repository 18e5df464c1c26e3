// SPDX-License-Identifier: MPL-2.0

// Package msvcenv locates a Visual Studio installation and imports the
// environment that vcvarsall.bat would set up (INCLUDE, LIB, PATH and
// friends) into the current process, so cl.exe, lib.exe and link.exe can be
// invoked from an ordinary shell.
//
// The scrape is strict: ParseSetOutput rejects any line that is not
// KEY=VALUE, and Overlay.Apply either applies every variable or none.
package msvcenv
