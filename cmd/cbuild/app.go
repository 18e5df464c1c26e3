// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/nchess/cbuild/internal/app/processor"
	"github.com/nchess/cbuild/internal/config"
	"github.com/nchess/cbuild/internal/detect"
	"github.com/nchess/cbuild/internal/msvcenv"
	"github.com/nchess/cbuild/internal/pipeline"
	"github.com/nchess/cbuild/internal/runner"
	"github.com/nchess/cbuild/pkg/toolchain"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; Cobra handlers delegate to it.
	App struct {
		Config   ConfigProvider
		Runner   runner.Runner
		LookPath func(string) (string, error)
		Env      msvcenv.Environment
		GOOS     string
		GOARCH   string
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Runner executes tools. Nil builds an exec-backed runner per run.
		Runner   runner.Runner
		LookPath func(string) (string, error)
		Env      msvcenv.Environment
		GOOS     string
		GOARCH   string
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RunOptions are the inputs of one root command invocation.
	RunOptions struct {
		// Compiler is the --compiler flag value; empty defers to the config file.
		Compiler   string
		ConfigPath string
		Verbose    bool
		Commands   []string
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Runner:   deps.Runner,
		LookPath: deps.LookPath,
		Env:      deps.Env,
		GOOS:     deps.GOOS,
		GOARCH:   deps.GOARCH,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.LookPath == nil {
		app.LookPath = exec.LookPath
	}
	if app.Env == nil {
		app.Env = msvcenv.OSEnvironment{}
	}
	if app.GOOS == "" {
		app.GOOS = runtime.GOOS
	}
	if app.GOARCH == "" {
		app.GOARCH = runtime.GOARCH
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// Run loads the configuration and executes the queued commands. Failures are
// rendered to stderr and returned as *ExitError.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	// The flag is checked before any file is read.
	id, err := detect.ParseRequest(opts.Compiler)
	if err != nil {
		return a.fail(err, opts.Verbose, config.ColorSchemeAuto)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.ConfigPath})
	if err != nil {
		return a.fail(err, opts.Verbose, config.ColorSchemeAuto)
	}

	verbose := opts.Verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, verbose)

	if id.IsAuto() {
		if id, err = cfg.Toolchain(); err != nil {
			return a.fail(err, verbose, cfg.UI.ColorScheme)
		}
	}

	r := a.runner(logger)
	det, err := a.detector(cfg, r, logger)
	if err != nil {
		return a.fail(err, verbose, cfg.UI.ColorScheme)
	}
	pl := pipeline.New(cfg.Layout.ToLayout(), r,
		pipeline.WithLogger(logger),
		pipeline.WithDiagnostics(a.stderr),
		pipeline.WithGOOS(a.GOOS),
	)

	proc := processor.New(det, pl, processor.WithLogger(logger))
	report, err := proc.Run(ctx, processor.Request{Toolchain: id, Commands: opts.Commands})
	if err != nil {
		return a.fail(err, verbose, cfg.UI.ColorScheme)
	}

	logger.Debug("run finished", "toolchain", report.Selection.Profile.ID(), "commands", len(report.Executed))
	fmt.Fprintln(a.stdout, SuccessStyle.Render("✓ All commands completed successfully!"))
	return nil
}

func (a *App) fail(err error, verbose bool, scheme config.ColorScheme) error {
	renderError(a.stderr, err, verbose, scheme)
	return &ExitError{Code: 1, Err: err}
}

func (a *App) runner(logger *log.Logger) runner.Runner {
	if a.Runner != nil {
		return a.Runner
	}
	return runner.NewExec(
		runner.WithStreams(a.stdin, a.stdout, a.stderr),
		runner.WithLogger(logger),
	)
}

// detector builds the toolchain detector with its MSVC helpers.
func (a *App) detector(cfg *config.Config, r runner.Runner, logger *log.Logger) (*detect.Detector, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	installer := msvcenv.NewInstaller(r,
		msvcenv.WithInstallerEnvironment(a.Env),
		msvcenv.WithProbeTimeout(timeout),
	)
	boot := msvcenv.NewBootstrapper(installer, r, a.GOARCH,
		msvcenv.WithEnvironment(a.Env),
		msvcenv.WithLogger(logger),
	)
	return detect.New(toolchain.DefaultRegistry(),
		detect.WithLookPath(a.LookPath),
		detect.WithGOOS(a.GOOS),
		detect.WithEnvironment(a.Env),
		detect.WithVisualStudio(installer),
		detect.WithBootstrapper(boot),
		detect.WithLogger(logger),
	), nil
}

// newLogger builds the progress logger. Verbose mode adds debug output,
// including every tool command line.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "cbuild",
		Level:  level,
	})
}
