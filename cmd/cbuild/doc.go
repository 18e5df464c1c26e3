// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cbuild command-line interface.
//
// The root command accepts an ordered list of build commands (clean, build,
// build-debug, test, test-debug) and hands them to the command processor.
// The toolchains and config subcommands inspect the registry and the project
// configuration.
package cmd
