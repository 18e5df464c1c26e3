// SPDX-License-Identifier: MPL-2.0

package msvcenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nchess/cbuild/internal/runner"
)

const (
	// DefaultProbeTimeout bounds each vswhere query.
	DefaultProbeTimeout = 5 * time.Second

	defaultProgramFilesX86 = `C:\Program Files (x86)`
	vswhereRelPath         = `Microsoft Visual Studio\Installer\vswhere.exe`
	vcvarsallRelPath       = `VC\Auxiliary\Build\vcvarsall.bat`

	// clPattern matches the host-native cl.exe of every installed MSVC version.
	clPattern = "VC/Tools/MSVC/*/bin/{Hostx64/x64,Hostx86/x86}/cl.exe"
)

var (
	// ErrVSWhereNotFound is returned when vswhere.exe is not installed.
	ErrVSWhereNotFound = errors.New("vswhere.exe not found")

	// ErrNoInstallation is returned when vswhere reports no Visual Studio installation.
	ErrNoInstallation = errors.New("no Visual Studio installation found")
)

type (
	// Installer queries the Visual Studio Installer's vswhere.exe.
	Installer struct {
		runner  runner.Runner
		env     Environment
		stat    func(string) (fs.FileInfo, error)
		dirFS   func(string) fs.FS
		timeout time.Duration
	}

	// InstallerOption configures an Installer.
	InstallerOption func(*Installer)

	// VSWhereError reports a vswhere run that failed or timed out.
	VSWhereError struct {
		ExitCode runner.ExitCode
		Output   string
		Err      error
	}
)

// Error implements the error interface.
func (e *VSWhereError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vswhere failed: %v", e.Err)
	}
	return fmt.Sprintf("vswhere exited with code %d: %s", e.ExitCode, strings.TrimSpace(e.Output))
}

// Unwrap returns the underlying start or timeout error, if any.
func (e *VSWhereError) Unwrap() error { return e.Err }

// WithInstallerEnvironment sets the environment read for ProgramFiles(x86).
func WithInstallerEnvironment(env Environment) InstallerOption {
	return func(i *Installer) { i.env = env }
}

// WithStat replaces os.Stat for existence checks.
func WithStat(stat func(string) (fs.FileInfo, error)) InstallerOption {
	return func(i *Installer) { i.stat = stat }
}

// WithDirFS replaces os.DirFS for globbing inside an installation.
func WithDirFS(dirFS func(string) fs.FS) InstallerOption {
	return func(i *Installer) { i.dirFS = dirFS }
}

// WithProbeTimeout bounds each vswhere query. Non-positive values keep the default.
func WithProbeTimeout(d time.Duration) InstallerOption {
	return func(i *Installer) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// NewInstaller creates an Installer that runs vswhere through r.
func NewInstaller(r runner.Runner, opts ...InstallerOption) *Installer {
	i := &Installer{
		runner:  r,
		env:     OSEnvironment{},
		stat:    os.Stat,
		dirFS:   os.DirFS,
		timeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// VSWherePath returns the location of vswhere.exe, or ErrVSWhereNotFound.
func (i *Installer) VSWherePath() (string, error) {
	root := Getenv(i.env, "ProgramFiles(x86)")
	if root == "" {
		root = defaultProgramFilesX86
	}
	path := WinJoin(root, vswhereRelPath)
	if _, err := i.stat(path); err != nil {
		return "", fmt.Errorf("%w at %s", ErrVSWhereNotFound, path)
	}
	return path, nil
}

// InstallationPath asks vswhere for the latest installation directory.
func (i *Installer) InstallationPath(ctx context.Context) (string, error) {
	vswhere, err := i.VSWherePath()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	res := i.runner.Capture(ctx, runner.NewInvocation(vswhere, "-latest", "-property", "installationPath"))
	if res.Error != nil {
		return "", &VSWhereError{ExitCode: res.ExitCode, Err: res.Error}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", &VSWhereError{ExitCode: res.ExitCode, Err: ctxErr}
	}
	if !res.ExitCode.IsSuccess() {
		return "", &VSWhereError{ExitCode: res.ExitCode, Output: string(res.Output)}
	}

	path := firstLine(string(res.Output))
	if path == "" {
		return "", ErrNoInstallation
	}
	return path, nil
}

// CompilerPaths returns every host-native cl.exe inside installDir, sorted.
func (i *Installer) CompilerPaths(installDir string) ([]string, error) {
	matches, err := doublestar.Glob(i.dirFS(installDir), clPattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for n, m := range matches {
		out[n] = WinJoin(installDir, strings.ReplaceAll(m, "/", `\`))
	}
	return out, nil
}

// VCVarsAllPath returns the vcvarsall.bat path for an installation.
func VCVarsAllPath(installDir string) string {
	return WinJoin(installDir, vcvarsallRelPath)
}

// WinJoin joins path elements with backslashes regardless of the host OS.
func WinJoin(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for idx, e := range elem {
		if idx > 0 {
			e = strings.TrimLeft(e, `\/`)
		}
		if idx < len(elem)-1 {
			e = strings.TrimRight(e, `\/`)
		}
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, `\`)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(s, "\r\n"), "\n")
	return strings.TrimSpace(line)
}
