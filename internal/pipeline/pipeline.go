// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/nchess/cbuild/internal/runner"
	"github.com/nchess/cbuild/pkg/toolchain"
)

type (
	// Pipeline runs the build, test and clean operations for one Layout.
	Pipeline struct {
		layout Layout
		runner runner.Runner
		logger *log.Logger
		// diag receives captured tool output when a step fails.
		diag  io.Writer
		goos  string
		dirFS func(string) fs.FS
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)
)

// WithLogger sets the progress logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithDiagnostics sets where failing tools' captured output is written.
func WithDiagnostics(w io.Writer) Option {
	return func(p *Pipeline) { p.diag = w }
}

// WithGOOS overrides the host OS used for executable naming.
func WithGOOS(goos string) Option {
	return func(p *Pipeline) { p.goos = goos }
}

// New creates a Pipeline for layout that runs tools through r.
func New(layout Layout, r runner.Runner, opts ...Option) *Pipeline {
	p := &Pipeline{
		layout: layout,
		runner: r,
		logger: log.New(io.Discard),
		diag:   os.Stderr,
		goos:   runtime.GOOS,
		dirFS:  os.DirFS,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the pipeline's layout.
func (p *Pipeline) Layout() Layout { return p.layout }

// Paths returns the artifact locations for profile on this host.
func (p *Pipeline) Paths(profile toolchain.Profile) ArtifactPaths {
	return p.layout.Paths(profile, p.goos)
}

// Clean removes the build directory. A missing directory is not an error.
func (p *Pipeline) Clean(_ context.Context) error {
	root := p.layout.BuildDir
	if _, err := os.Lstat(root); errors.Is(err, fs.ErrNotExist) {
		p.logger.Info("Nothing to clean")
		return nil
	}
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("remove %s: %w", root, err)
	}
	p.logger.Info("Cleaned " + root)
	return nil
}

// Build compiles every library source and archives the objects. Objects and
// the archive left by an earlier build are removed first, so the library
// holds exactly the current sources.
func (p *Pipeline) Build(ctx context.Context, mode toolchain.Mode, profile toolchain.Profile) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	paths := p.Paths(profile)
	cflags := profile.CFlags(mode)

	sources, err := p.Sources(p.layout.SourceDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return &MissingError{Path: p.layout.SourceDir, Err: ErrNoSourcesFound}
	}

	p.logger.Info(fmt.Sprintf("--- Building library in %s mode ---", mode.Banner()))
	p.logger.Info("Compiler: " + string(profile.ID()))
	p.logger.Info(fmt.Sprintf("Found %d source files", len(sources)))

	objects, err := p.compileAll(ctx, profile, cflags, p.layout.SourceDir, sources, paths.ObjDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(paths.BinDir, 0o755); err != nil {
		return err
	}
	// ar updates an existing archive in place.
	if err := os.Remove(paths.Archive); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale archive %s: %w", paths.Archive, err)
	}
	p.logger.Info(fmt.Sprintf("Creating archive %s...", paths.Archive))
	if err := p.capture(ctx, profile.ArchiveCommand(paths.Archive, objects), StepArchive, paths.Archive, ErrArchiveCreationFailed); err != nil {
		return err
	}

	p.logger.Info("Library created: " + paths.Archive)
	return nil
}

// Test compiles and links the test sources against the archive, then runs
// the resulting executable attached to the terminal.
func (p *Pipeline) Test(ctx context.Context, mode toolchain.Mode, profile toolchain.Profile) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	paths := p.Paths(profile)
	if _, err := os.Stat(paths.Archive); err != nil {
		return &MissingError{Path: paths.Archive, Err: ErrLibraryMissing}
	}

	fam := profile.Family()
	cflags := append(profile.CFlags(mode), fam.IncludeFlag(p.layout.SourceDir))

	p.logger.Info(fmt.Sprintf("--- Building tests in %s mode ---", mode.Banner()))
	p.logger.Info("Compiler: " + string(profile.ID()))

	sources, err := p.Sources(p.layout.TestDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return &MissingError{Path: p.layout.TestDir, Err: ErrNoTestSourcesFound}
	}
	p.logger.Info(fmt.Sprintf("Found %d test files", len(sources)))

	objects, err := p.compileAll(ctx, profile, cflags, p.layout.TestDir, sources, paths.TestObjDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(paths.BinDir, 0o755); err != nil {
		return err
	}
	p.logger.Info(fmt.Sprintf("Linking executable %s...", paths.TestExecutable))
	link := profile.LinkCommand(cflags, objects, []string{paths.Archive}, paths.TestExecutable)
	if err := p.capture(ctx, link, StepLink, paths.TestExecutable, ErrLinkFailed); err != nil {
		return err
	}
	p.logger.Info("Test executable created: " + paths.TestExecutable)

	p.logger.Info("--- Running tests ---")
	res := p.runner.Attach(ctx, runner.NewInvocation(executablePath(paths.TestExecutable)))
	if res.Error != nil {
		return &StepError{Step: StepRun, Target: paths.TestExecutable, ExitCode: res.ExitCode, Err: ErrTestsFailed, Cause: res.Error}
	}
	if !res.ExitCode.IsSuccess() {
		p.logger.Error(fmt.Sprintf("Tests failed with exit code: %d", res.ExitCode))
		return &TestsFailedError{ExitCode: res.ExitCode}
	}

	p.logger.Info("Tests completed successfully!")
	return nil
}

// Sources returns the files in dir matching the layout's pattern, sorted.
// A missing directory yields no sources.
func (p *Pipeline) Sources(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	matches, err := doublestar.Glob(p.dirFS(dir), p.layout.SourcePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", p.layout.SourcePattern, dir, err)
	}
	slices.Sort(matches)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return out, nil
}

// ObjectPath maps src, a file under srcDir, to its object file under objDir.
// The path below srcDir is mirrored, so same-named sources in different
// subdirectories get distinct objects.
func ObjectPath(src, srcDir, objDir string, fam toolchain.Family) string {
	rel, err := filepath.Rel(srcDir, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(src)
	}
	return filepath.Join(objDir, strings.TrimSuffix(rel, filepath.Ext(rel))+fam.ObjectSuffix())
}

// compileAll recreates objDir and compiles every source into it.
func (p *Pipeline) compileAll(ctx context.Context, profile toolchain.Profile, cflags []string, srcDir string, sources []string, objDir string) ([]string, error) {
	if err := os.RemoveAll(objDir); err != nil {
		return nil, fmt.Errorf("remove stale objects %s: %w", objDir, err)
	}
	objects := make([]string, 0, len(sources))
	for _, src := range sources {
		obj := ObjectPath(src, srcDir, objDir, profile.Family())
		if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
			return nil, err
		}
		p.logger.Info(fmt.Sprintf("Compiling %s...", src))
		if err := p.capture(ctx, profile.CompileCommand(cflags, src, obj), StepCompile, src, ErrCompilationFailed); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// capture runs cmd and, on failure, writes its output to the diagnostics writer.
func (p *Pipeline) capture(ctx context.Context, cmd toolchain.Command, step, target string, sentinel error) error {
	res := p.runner.Capture(ctx, runner.NewInvocation(cmd.Name, cmd.Args...))
	if res.Succeeded() {
		return nil
	}
	if res.Error != nil {
		return &StepError{Step: step, Target: target, ExitCode: res.ExitCode, Err: sentinel, Cause: res.Error}
	}
	if len(res.Output) > 0 {
		_, _ = p.diag.Write(res.Output)
	}
	return &StepError{Step: step, Target: target, ExitCode: res.ExitCode, Err: sentinel}
}

// executablePath makes a relative path explicit so the OS does not search PATH for it.
func executablePath(path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "."+string(filepath.Separator)) {
		return path
	}
	return "." + string(filepath.Separator) + path
}
