// SPDX-License-Identifier: MPL-2.0

package detect

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/nchess/cbuild/internal/msvcenv"
	"github.com/nchess/cbuild/pkg/platform"
	"github.com/nchess/cbuild/pkg/toolchain"
)

type (
	// Selection is the outcome of Resolve.
	Selection struct {
		Profile toolchain.Profile
		// Auto is true when the profile was auto-detected rather than requested.
		Auto bool
		// Bootstrapped is true when the MSVC environment was imported.
		Bootstrapped bool
	}

	// Bootstrapper imports a compiler environment into the process.
	Bootstrapper interface {
		Bootstrap(ctx context.Context) (msvcenv.Overlay, error)
	}

	// VisualStudio locates installed MSVC compilers.
	VisualStudio interface {
		InstallationPath(ctx context.Context) (string, error)
		CompilerPaths(installDir string) ([]string, error)
	}

	// Detector resolves toolchain identifiers to installed profiles.
	Detector struct {
		registry     *toolchain.Registry
		lookPath     func(string) (string, error)
		goos         string
		env          msvcenv.Environment
		vs           VisualStudio
		bootstrapper Bootstrapper
		logger       *log.Logger
	}

	// Option configures a Detector.
	Option func(*Detector)
)

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(d *Detector) { d.lookPath = fn }
}

// WithGOOS overrides the host operating system.
func WithGOOS(goos string) Option {
	return func(d *Detector) { d.goos = goos }
}

// WithEnvironment sets the environment checked for INCLUDE and LIB.
func WithEnvironment(env msvcenv.Environment) Option {
	return func(d *Detector) { d.env = env }
}

// WithVisualStudio sets the Visual Studio locator used on Windows.
func WithVisualStudio(vs VisualStudio) Option {
	return func(d *Detector) { d.vs = vs }
}

// WithBootstrapper sets the MSVC environment bootstrapper.
func WithBootstrapper(b Bootstrapper) Option {
	return func(d *Detector) { d.bootstrapper = b }
}

// WithLogger sets the progress logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}

// New creates a Detector over registry.
func New(registry *toolchain.Registry, opts ...Option) *Detector {
	d := &Detector{
		registry: registry,
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
		env:      msvcenv.OSEnvironment{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve returns the profile for id, or auto-detects one when id is empty.
// A selected MSVC profile has its environment bootstrapped when INCLUDE or
// LIB is unset.
func (d *Detector) Resolve(ctx context.Context, id toolchain.ID) (Selection, error) {
	var sel Selection
	if id.IsAuto() {
		detected, err := d.Detect(ctx)
		if err != nil {
			return Selection{}, err
		}
		p, err := d.registry.Lookup(detected)
		if err != nil {
			return Selection{}, unknownToolchainError(err)
		}
		sel = Selection{Profile: p, Auto: true}
		d.logger.Info("Auto-detected compiler: " + string(detected))
	} else {
		p, err := d.registry.Lookup(id)
		if err != nil {
			return Selection{}, unknownToolchainError(err)
		}
		if !d.available(p.Compiler()) {
			return Selection{}, unavailableError(p)
		}
		sel = Selection{Profile: p}
		d.logger.Info("Using compiler: " + string(id))
	}

	if sel.Profile.Family().Kind() == toolchain.FamilyMSVC && msvcenv.NeedsBootstrap(d.env) {
		if err := d.bootstrap(ctx); err != nil {
			return Selection{}, err
		}
		sel.Bootstrapped = true
	}
	return sel, nil
}

// Detect returns the first available toolchain: MSVC (Windows only), gcc, clang.
func (d *Detector) Detect(ctx context.Context) (toolchain.ID, error) {
	if platform.IsWindows(d.goos) && d.msvcInstalled(ctx) {
		return toolchain.MSVC, nil
	}
	for _, id := range []toolchain.ID{toolchain.GCC, toolchain.Clang} {
		p, err := d.registry.Lookup(id)
		if err != nil {
			continue
		}
		if d.available(p.Compiler()) {
			return id, nil
		}
	}
	return "", noToolchainError()
}

// Available reports, for every registered profile, whether its compiler is on PATH.
func (d *Detector) Available() map[toolchain.ID]bool {
	out := make(map[toolchain.ID]bool, d.registry.Len())
	for _, p := range d.registry.Profiles() {
		out[p.ID()] = d.available(p.Compiler())
	}
	return out
}

func (d *Detector) available(exe string) bool {
	_, err := d.lookPath(exe)
	return err == nil
}

func (d *Detector) msvcInstalled(ctx context.Context) bool {
	if p, err := d.registry.Lookup(toolchain.MSVC); err == nil && d.available(p.Compiler()) {
		return true
	}
	if d.vs == nil {
		return false
	}
	install, err := d.vs.InstallationPath(ctx)
	if err != nil {
		d.logger.Debug("Visual Studio not found", "err", err)
		return false
	}
	compilers, err := d.vs.CompilerPaths(install)
	if err != nil {
		d.logger.Debug("cl.exe search failed", "install", install, "err", err)
		return false
	}
	return len(compilers) > 0
}

func (d *Detector) bootstrap(ctx context.Context) error {
	d.logger.Info("Setting up MSVC environment...")
	if d.bootstrapper == nil {
		return bootstrapError(fmt.Errorf("%w: no bootstrapper configured", ErrEnvironmentBootstrapFailed))
	}
	if _, err := d.bootstrapper.Bootstrap(ctx); err != nil {
		return bootstrapError(err)
	}
	return nil
}
