// SPDX-License-Identifier: MPL-2.0

package msvcenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nchess/cbuild/internal/runner"
)

// setMarker separates vcvarsall's own chatter from the `set` dump.
const setMarker = "__CBUILD_ENV_BEGIN__"

// ErrBootstrapFailed is wrapped by every Bootstrap failure.
var ErrBootstrapFailed = errors.New("MSVC environment bootstrap failed")

type (
	// Bootstrapper imports the vcvarsall environment into the process.
	Bootstrapper struct {
		installer *Installer
		runner    runner.Runner
		env       Environment
		goarch    string
		logger    *log.Logger
	}

	// BootstrapOption configures a Bootstrapper.
	BootstrapOption func(*Bootstrapper)

	// BootstrapError records which step of the bootstrap failed.
	BootstrapError struct {
		Step string
		Err  error
	}
)

// Error implements the error interface.
func (e *BootstrapError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrBootstrapFailed, e.Step, e.Err)
}

// Unwrap exposes both ErrBootstrapFailed and the step's cause.
func (e *BootstrapError) Unwrap() []error { return []error{ErrBootstrapFailed, e.Err} }

// WithEnvironment sets the environment the overlay is applied to.
func WithEnvironment(env Environment) BootstrapOption {
	return func(b *Bootstrapper) { b.env = env }
}

// WithGOARCH overrides the host architecture used to pick x64 or x86.
func WithGOARCH(goarch string) BootstrapOption {
	return func(b *Bootstrapper) { b.goarch = goarch }
}

// WithLogger sets the progress logger.
func WithLogger(logger *log.Logger) BootstrapOption {
	return func(b *Bootstrapper) { b.logger = logger }
}

// NewBootstrapper creates a Bootstrapper that queries installer and runs
// vcvarsall through r.
func NewBootstrapper(installer *Installer, r runner.Runner, goarch string, opts ...BootstrapOption) *Bootstrapper {
	b := &Bootstrapper{
		installer: installer,
		runner:    r,
		env:       OSEnvironment{},
		goarch:    goarch,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Arch maps a GOARCH value to the vcvarsall architecture argument.
func Arch(goarch string) string {
	if strings.HasSuffix(goarch, "64") {
		return "x64"
	}
	return "x86"
}

// NeedsBootstrap reports whether INCLUDE or LIB is missing from env.
func NeedsBootstrap(env Environment) bool {
	return Getenv(env, "INCLUDE") == "" || Getenv(env, "LIB") == ""
}

// Bootstrap locates vcvarsall.bat, runs it, and applies the resulting
// environment. Every failure wraps ErrBootstrapFailed.
func (b *Bootstrapper) Bootstrap(ctx context.Context) (Overlay, error) {
	install, err := b.installer.InstallationPath(ctx)
	if err != nil {
		return nil, &BootstrapError{Step: "locate Visual Studio", Err: err}
	}

	arch := Arch(b.goarch)
	vcvars := VCVarsAllPath(install)
	b.logger.Info("Setting up MSVC environment", "arch", arch, "vcvarsall", vcvars)

	res := b.runner.Capture(ctx, VCVarsInvocation(vcvars, arch))
	if res.Error != nil {
		return nil, &BootstrapError{Step: "run vcvarsall.bat", Err: res.Error}
	}
	if !res.ExitCode.IsSuccess() {
		return nil, &BootstrapError{
			Step: "run vcvarsall.bat",
			Err:  fmt.Errorf("exit code %d: %s", res.ExitCode, strings.TrimSpace(string(res.Output))),
		}
	}

	overlay, err := ParseSetOutput(res.Output, setMarker)
	if err != nil {
		return nil, &BootstrapError{Step: "parse environment", Err: err}
	}
	if err := overlay.Apply(b.env); err != nil {
		return nil, &BootstrapError{Step: "apply environment", Err: err}
	}

	b.logger.Debug("MSVC environment applied", "vars", len(overlay))
	return overlay, nil
}

// VCVarsInvocation builds the cmd.exe call that runs vcvarsall for arch and
// dumps the resulting environment after setMarker.
func VCVarsInvocation(vcvars, arch string) runner.Invocation {
	script := fmt.Sprintf(`"%s" %s >nul && echo %s && set`, vcvars, arch, setMarker)
	return runner.Invocation{
		Name:       "cmd.exe",
		Args:       []string{"/s", "/c", script},
		RawCmdLine: fmt.Sprintf(`cmd.exe /s /c "%s"`, script),
	}
}
