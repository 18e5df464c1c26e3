// SPDX-License-Identifier: MPL-2.0

package processor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nchess/cbuild/pkg/toolchain"
)

const (
	CommandClean Command = iota + 1
	CommandBuild
	CommandBuildDebug
	CommandTest
	CommandTestDebug
)

var (
	// ErrUnknownCommand is returned when a command token is not recognized.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoCommands is returned when the command list is empty.
	ErrNoCommands = errors.New("no command specified")
)

type (
	// Command is one recognized command token.
	Command int

	// UnknownCommandError names the offending token.
	UnknownCommandError struct {
		Token string
	}
)

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s (available: %s)", e.Token, strings.Join(CommandNames(), ", "))
}

// Unwrap returns ErrUnknownCommand for errors.Is() compatibility.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// AllCommands returns every command in help order.
func AllCommands() []Command {
	return []Command{CommandClean, CommandBuild, CommandBuildDebug, CommandTest, CommandTestDebug}
}

// CommandNames returns the token of every command in help order.
func CommandNames() []string {
	all := AllCommands()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.String()
	}
	return names
}

// ParseCommand maps a case-insensitive token to a Command.
func ParseCommand(token string) (Command, error) {
	for _, c := range AllCommands() {
		if strings.EqualFold(token, c.String()) {
			return c, nil
		}
	}
	return 0, &UnknownCommandError{Token: token}
}

// ParseCommands parses every token, failing on the first unknown one.
func ParseCommands(tokens []string) ([]Command, error) {
	if len(tokens) == 0 {
		return nil, ErrNoCommands
	}
	cmds := make([]Command, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCommand(tok)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// String returns the command token.
func (c Command) String() string {
	switch c {
	case CommandClean:
		return "clean"
	case CommandBuild:
		return "build"
	case CommandBuildDebug:
		return "build-debug"
	case CommandTest:
		return "test"
	case CommandTestDebug:
		return "test-debug"
	default:
		return "unknown"
	}
}

// Mode returns the build mode implied by the -debug suffix.
func (c Command) Mode() toolchain.Mode {
	if c == CommandBuildDebug || c == CommandTestDebug {
		return toolchain.Debug
	}
	return toolchain.Release
}

// Description is the one-line help text for the command.
func (c Command) Description() string {
	switch c {
	case CommandClean:
		return "Remove build directory"
	case CommandBuild:
		return "Build the library (release mode)"
	case CommandBuildDebug:
		return "Build the library (debug mode)"
	case CommandTest:
		return "Build and run tests (release mode)"
	case CommandTestDebug:
		return "Build and run tests (debug mode)"
	default:
		return ""
	}
}
