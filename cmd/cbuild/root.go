// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/nchess/cbuild/internal/app/processor"
	"github.com/nchess/cbuild/pkg/toolchain"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flag values of one command tree.
type rootFlags struct {
	compiler   string
	configPath string
	verbose    bool
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCommand creates the cbuild command tree bound to app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "cbuild [flags] <command>...",
		Short: "Build and test the NChess C library with gcc, clang or MSVC",
		Long:  rootLongHelp(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s %s\n", ErrorStyle.Render("Error:"), processor.ErrNoCommands)
				return &ExitError{Code: 1, Err: processor.ErrNoCommands}
			}
			return app.Run(cmd.Context(), RunOptions{
				Compiler:   flags.compiler,
				ConfigPath: flags.configPath,
				Verbose:    flags.verbose,
				Commands:   args,
			})
		},
	}

	ids := make([]string, 0, len(toolchain.KnownIDs()))
	for _, id := range toolchain.KnownIDs() {
		ids = append(ids, id.String())
	}

	rootCmd.PersistentFlags().StringVarP(&flags.compiler, "compiler", "c", "", "toolchain to use ("+strings.Join(ids, "|")+"); auto-detected when unset")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "project config file (default is ./cbuild.cue)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newToolchainsCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

func rootLongHelp() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("cbuild"))
	sb.WriteString(SubtitleStyle.Render(" - toolchain-agnostic builds for the NChess C library"))
	sb.WriteString("\n\nCommands run in the order given and stop at the first failure.\n\n")

	sb.WriteString(SubtitleStyle.Render("Commands:"))
	sb.WriteString("\n")
	for _, c := range processor.AllCommands() {
		fmt.Fprintf(&sb, "  %-13s %s\n", c.String(), c.Description())
	}

	sb.WriteString("\n")
	sb.WriteString(SubtitleStyle.Render("Examples:"))
	sb.WriteString(`
  cbuild build                      Build the library with the detected compiler
  cbuild --compiler=clang build     Build with clang
  cbuild clean build test           Rebuild from scratch and run the tests
  cbuild --compiler=msvc test-debug Build and run the tests with debug flags`)
	return sb.String()
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError lets fang print usage errors while leaving errors the App has
// already rendered alone.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
