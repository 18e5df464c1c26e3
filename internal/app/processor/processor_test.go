// SPDX-License-Identifier: MPL-2.0

package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nchess/cbuild/internal/detect"
	"github.com/nchess/cbuild/internal/pipeline"
	"github.com/nchess/cbuild/internal/runner"
	"github.com/nchess/cbuild/internal/runner/runnertest"
	"github.com/nchess/cbuild/pkg/toolchain"
)

type (
	stubResolver struct {
		id    toolchain.ID
		err   error
		calls int
	}

	recordingExecutor struct {
		calls  []string
		failOn string
		err    error
	}
)

func (r *stubResolver) Resolve(_ context.Context, id toolchain.ID) (detect.Selection, error) {
	r.calls++
	if r.err != nil {
		return detect.Selection{}, r.err
	}
	if id.IsAuto() {
		id = r.id
	}
	p, err := toolchain.DefaultRegistry().Lookup(id)
	return detect.Selection{Profile: p, Auto: id == r.id}, err
}

func (e *recordingExecutor) record(name string) error {
	e.calls = append(e.calls, name)
	if name == e.failOn {
		return e.err
	}
	return nil
}

func (e *recordingExecutor) Clean(context.Context) error { return e.record("clean") }

func (e *recordingExecutor) Build(_ context.Context, mode toolchain.Mode, p toolchain.Profile) error {
	return e.record("build:" + mode.String() + ":" + string(p.ID()))
}

func (e *recordingExecutor) Test(_ context.Context, mode toolchain.Mode, p toolchain.Profile) error {
	return e.record("test:" + mode.String() + ":" + string(p.ID()))
}

func TestRun_DispatchesInOrder(t *testing.T) {
	t.Parallel()

	exec := &recordingExecutor{}
	p := New(&stubResolver{id: toolchain.GCC}, exec)

	report, err := p.Run(context.Background(), Request{Commands: []string{"clean", "BUILD", "build-debug", "Test", "test-debug"}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{"clean", "build:release:gcc", "build:debug:gcc", "test:release:gcc", "test:debug:gcc"}
	if !slices.Equal(exec.calls, want) {
		t.Errorf("calls = %v, want %v", exec.calls, want)
	}
	if report.State != StateCompleted || p.State() != StateCompleted {
		t.Errorf("state = %s / %s, want completed", report.State, p.State())
	}
	if len(report.Executed) != 5 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if !report.Selection.Auto || report.Selection.Profile.ID() != toolchain.GCC {
		t.Errorf("selection = %+v", report.Selection)
	}
}

func TestRun_RequestedToolchainIsPassedThrough(t *testing.T) {
	t.Parallel()

	exec := &recordingExecutor{}
	_, err := New(&stubResolver{id: toolchain.GCC}, exec).Run(context.Background(),
		Request{Toolchain: toolchain.Clang, Commands: []string{"build"}})
	if err != nil {
		t.Fatal(err)
	}
	if exec.calls[0] != "build:release:clang" {
		t.Errorf("calls = %v", exec.calls)
	}
}

func TestRun_UnknownCommandAnywhereRunsNothing(t *testing.T) {
	t.Parallel()

	for _, tokens := range [][]string{
		{"frobnicate"},
		{"clean", "build", "deploy"},
		{"build", "bulid", "test"},
	} {
		t.Run(strings.Join(tokens, "_"), func(t *testing.T) {
			t.Parallel()

			res := &stubResolver{id: toolchain.GCC}
			exec := &recordingExecutor{}
			p := New(res, exec)

			report, err := p.Run(context.Background(), Request{Commands: tokens})
			if !errors.Is(err, ErrUnknownCommand) {
				t.Fatalf("Run() error = %v, want ErrUnknownCommand", err)
			}
			if len(exec.calls) != 0 || res.calls != 0 {
				t.Errorf("nothing should run: executor=%v resolver=%d", exec.calls, res.calls)
			}
			if report.State != StateFailed || p.State() != StateFailed {
				t.Errorf("state = %s", report.State)
			}
		})
	}
}

func TestRun_NoCommands(t *testing.T) {
	t.Parallel()

	_, err := New(&stubResolver{id: toolchain.GCC}, &recordingExecutor{}).Run(context.Background(), Request{})
	if !errors.Is(err, ErrNoCommands) {
		t.Fatalf("Run() error = %v, want ErrNoCommands", err)
	}
}

func TestRun_ResolutionFailureIsTerminal(t *testing.T) {
	t.Parallel()

	exec := &recordingExecutor{}
	p := New(&stubResolver{err: detect.ErrNoToolchainFound}, exec)
	report, err := p.Run(context.Background(), Request{Commands: []string{"clean"}})
	if !errors.Is(err, detect.ErrNoToolchainFound) {
		t.Fatalf("Run() error = %v", err)
	}
	if report.State != StateFailed || len(exec.calls) != 0 {
		t.Errorf("report = %+v calls = %v", report, exec.calls)
	}
}

func TestRun_FailFast(t *testing.T) {
	t.Parallel()

	buildErr := pipeline.ErrCompilationFailed
	exec := &recordingExecutor{failOn: "build:release:gcc", err: buildErr}
	p := New(&stubResolver{id: toolchain.GCC}, exec)

	report, err := p.Run(context.Background(), Request{Commands: []string{"clean", "build", "test"}})
	if !errors.Is(err, buildErr) {
		t.Fatalf("Run() error = %v, want %v", err, buildErr)
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != CommandBuild {
		t.Errorf("error = %v, want CommandError for build", err)
	}
	if !slices.Equal(exec.calls, []string{"clean", "build:release:gcc"}) {
		t.Errorf("calls = %v, test must not run", exec.calls)
	}
	if report.Failed != CommandBuild || !slices.Equal(report.Executed, []Command{CommandClean}) {
		t.Errorf("report = %+v", report)
	}
}

func TestRun_SingleUse(t *testing.T) {
	t.Parallel()

	p := New(&stubResolver{id: toolchain.GCC}, &recordingExecutor{})
	if _, err := p.Run(context.Background(), Request{Commands: []string{"clean"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(context.Background(), Request{Commands: []string{"clean"}}); err == nil {
		t.Error("second Run() should fail")
	}
}

// TestRun_FailedBuildNeverCreatesTestObjects drives the real pipeline with a
// compiler that rejects every file.
func TestRun_FailedBuildNeverCreatesTestObjects(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	l := pipeline.DefaultLayout()
	l.SourceDir = filepath.Join(root, "nchess")
	l.TestDir = filepath.Join(root, "test")
	l.BuildDir = filepath.Join(root, "build")
	for _, f := range []string{filepath.Join(l.SourceDir, "board.c"), filepath.Join(l.TestDir, "test_board.c")} {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rec := runnertest.New().RespondWith(func(runner.Invocation) *runner.Result {
		return &runner.Result{ExitCode: 1, Output: []byte("error\n")}
	})
	pl := pipeline.New(l, rec, pipeline.WithDiagnostics(&strings.Builder{}))
	p := New(&stubResolver{id: toolchain.GCC}, pl)

	_, err := p.Run(context.Background(), Request{Commands: []string{"clean", "build", "test"}})
	if !errors.Is(err, pipeline.ErrCompilationFailed) {
		t.Fatalf("Run() error = %v", err)
	}
	gcc, _ := toolchain.DefaultRegistry().Lookup(toolchain.GCC)
	if _, err := os.Stat(l.Paths(gcc, "linux").TestObjDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("test object directory must not exist, stat err = %v", err)
	}
	if len(rec.Calls()) != 1 {
		t.Errorf("only the first compile should run, got %d calls", len(rec.Calls()))
	}
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	for _, c := range AllCommands() {
		got, err := ParseCommand(strings.ToUpper(c.String()))
		if err != nil || got != c {
			t.Errorf("ParseCommand(%q) = %v, %v", strings.ToUpper(c.String()), got, err)
		}
		if c.Description() == "" {
			t.Errorf("%s has no description", c)
		}
	}
	_, err := ParseCommand("install")
	var unk *UnknownCommandError
	if !errors.As(err, &unk) || unk.Token != "install" {
		t.Fatalf("ParseCommand(install) = %v", err)
	}
	if !strings.Contains(err.Error(), "clean, build, build-debug, test, test-debug") {
		t.Errorf("Error() = %q", err.Error())
	}
	if CommandTestDebug.Mode() != toolchain.Debug || CommandTest.Mode() != toolchain.Release {
		t.Error("unexpected command modes")
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateIdle, StateToolchainResolved, StateRunning, StateFailed, StateCompleted} {
		if err := s.Validate(); err != nil {
			t.Errorf("%s.Validate() = %v", s, err)
		}
	}
	if !StateFailed.IsTerminal() || !StateCompleted.IsTerminal() || StateRunning.IsTerminal() {
		t.Error("unexpected IsTerminal results")
	}
	if err := State(42).Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("State(42).Validate() = %v", err)
	}
	if State(42).String() != "unknown" || StateToolchainResolved.String() != "toolchain-resolved" {
		t.Error("unexpected String() results")
	}
}
