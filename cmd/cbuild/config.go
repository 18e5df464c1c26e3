// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nchess/cbuild/internal/config"
)

// newConfigCommand creates the `cbuild config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the cbuild project configuration",
		Long: `Manage the cbuild project configuration.

cbuild reads ./cbuild.cue when present, or the file given with --config.
Every field is optional; missing fields keep their defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default cbuild.cue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, flags)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlags) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return app.fail(err, flags.verbose, config.ColorSchemeAuto)
	}

	source := SubtitleStyle.Render("(using defaults)")
	switch {
	case flags.configPath != "":
		source = flags.configPath
	case fileExistsCheck(config.DefaultFile):
		source = config.DefaultFile
	}

	fmt.Fprintf(app.stderr, "%s: %s\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func initConfig(app *App, flags *rootFlags) error {
	path := flags.configPath
	if path == "" {
		path = config.DefaultFile
	}

	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(app.stderr, "%s %s already exists\n", WarningStyle.Render("!"), path)
			return &ExitError{Code: 1, Err: err}
		}
		return app.fail(err, flags.verbose, config.ColorSchemeAuto)
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

// fileExistsCheck checks if a file exists
func fileExistsCheck(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
