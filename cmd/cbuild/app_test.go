// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nchess/cbuild/internal/app/processor"
	"github.com/nchess/cbuild/internal/config"
	"github.com/nchess/cbuild/internal/detect"
	"github.com/nchess/cbuild/internal/msvcenv"
	"github.com/nchess/cbuild/internal/pipeline"
	"github.com/nchess/cbuild/internal/runner"
	"github.com/nchess/cbuild/internal/runner/runnertest"
	"github.com/nchess/cbuild/internal/testutil"
	"github.com/nchess/cbuild/pkg/toolchain"
)

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), nil
	}
	return s.cfg, nil
}

// lookPathFor reports only the given executables as installed.
func lookPathFor(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

type testApp struct {
	app    *App
	rec    *runnertest.Recorder
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(cfg *config.Config, installed ...string) *testApp {
	rec := runnertest.New()
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config:   staticConfig{cfg: cfg},
		Runner:   rec,
		LookPath: lookPathFor(installed...),
		Env:      msvcenv.NewMapEnvironment(nil),
		GOOS:     "linux",
		GOARCH:   "amd64",
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	return &testApp{app: app, rec: rec, stdout: &stdout, stderr: &stderr}
}

// projectTree creates a minimal NChess-shaped tree in a fresh directory and
// changes into it.
func projectTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteSources(t, filepath.Join(dir, "nchess"), "board.c", "move.c")
	testutil.WriteSources(t, filepath.Join(dir, "test"), "test_main.c")
	t.Chdir(dir)
	return dir
}

func TestAppRun_BuildAndTest(t *testing.T) {
	projectTree(t)
	ta := newTestApp(nil, "gcc", "ar")

	err := ta.app.Run(context.Background(), RunOptions{Commands: []string{"clean", "build", "test"}})
	if err != nil {
		t.Fatalf("Run() error = %v\nstderr:\n%s", err, ta.stderr)
	}

	if got := len(ta.rec.CallsTo("gcc")); got != 4 {
		t.Errorf("expected 4 gcc calls (2 lib, 1 test, 1 link), got %d", got)
	}
	if got := len(ta.rec.CallsTo("ar")); got != 1 {
		t.Errorf("expected 1 ar call, got %d", got)
	}
	if _, err := os.Stat(filepath.Join("build", "bin", "libnchess.a")); err != nil {
		t.Errorf("archive missing: %v", err)
	}

	for _, want := range []string{
		"Auto-detected compiler: gcc",
		"Nothing to clean",
		"--- Building library in RELEASE mode ---",
		"Found 2 source files",
		"Library created: " + filepath.Join("build", "bin", "libnchess.a"),
		"--- Running tests ---",
		"Tests completed successfully!",
	} {
		if !strings.Contains(ta.stderr.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, ta.stderr)
		}
	}
	if !strings.Contains(ta.stdout.String(), "All commands completed successfully!") {
		t.Errorf("stdout missing success banner: %q", ta.stdout)
	}
}

func TestAppRun_CompilerPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		want       string
	}{
		{"flag wins over config", "clang", "gcc", "clang"},
		{"config used without flag", "", "clang", "clang"},
		{"flag is case-insensitive", "GCC", "", "gcc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectTree(t)
			cfg := config.DefaultConfig()
			cfg.Compiler = tt.configured
			ta := newTestApp(cfg, "gcc", "clang", "ar")

			err := ta.app.Run(context.Background(), RunOptions{Compiler: tt.flag, Commands: []string{"build"}})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := len(ta.rec.CallsTo(tt.want)); got != 2 {
				t.Errorf("expected 2 %s calls, got %d", tt.want, got)
			}
			if !strings.Contains(ta.stderr.String(), "Using compiler: "+tt.want) {
				t.Errorf("stderr missing selection notice:\n%s", ta.stderr)
			}
		})
	}
}

func TestAppRun_Failures(t *testing.T) {
	tests := []struct {
		name      string
		opts      RunOptions
		installed []string
		wantErr   error
		wantOut   string
	}{
		{
			name:      "unknown command executes nothing",
			opts:      RunOptions{Commands: []string{"build", "deploy"}},
			installed: []string{"gcc", "ar"},
			wantErr:   processor.ErrUnknownCommand,
			wantOut:   "deploy",
		},
		{
			name:      "unknown compiler",
			opts:      RunOptions{Compiler: "tcc", Commands: []string{"build"}},
			installed: []string{"gcc", "ar"},
			wantErr:   toolchain.ErrUnknownToolchain,
			wantOut:   "tcc",
		},
		{
			name:      "requested compiler missing",
			opts:      RunOptions{Compiler: "clang", Commands: []string{"build"}},
			installed: []string{"gcc", "ar"},
			wantErr:   detect.ErrToolchainUnavailable,
			wantOut:   "clang",
		},
		{
			name:    "nothing installed",
			opts:    RunOptions{Commands: []string{"clean"}},
			wantErr: detect.ErrNoToolchainFound,
		},
		{
			name:      "test before build",
			opts:      RunOptions{Commands: []string{"test"}},
			installed: []string{"gcc", "ar"},
			wantErr:   pipeline.ErrLibraryMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectTree(t)
			ta := newTestApp(nil, tt.installed...)

			err := ta.app.Run(context.Background(), tt.opts)

			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != 1 {
				t.Fatalf("expected *ExitError with code 1, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain, got %v", tt.wantErr, err)
			}
			if !strings.Contains(ta.stderr.String(), "Error:") {
				t.Errorf("stderr missing error line:\n%s", ta.stderr)
			}
			if tt.wantOut != "" && !strings.Contains(ta.stderr.String(), tt.wantOut) {
				t.Errorf("stderr missing %q:\n%s", tt.wantOut, ta.stderr)
			}
			if ta.stdout.Len() != 0 {
				t.Errorf("expected no success output, got %q", ta.stdout)
			}
			if len(ta.rec.CallsTo("gcc")) != 0 {
				t.Errorf("expected no compiler calls, got %d", len(ta.rec.CallsTo("gcc")))
			}
		})
	}
}

func TestAppRun_FailingBuildSkipsTest(t *testing.T) {
	projectTree(t)
	ta := newTestApp(nil, "gcc", "ar")
	ta.rec.RespondWith(func(inv runner.Invocation) *runner.Result {
		if inv.Name == "gcc" {
			res := runner.NewExitCodeResult(1)
			res.Output = []byte("board.c:1: error: boom\n")
			return res
		}
		return nil
	})

	err := ta.app.Run(context.Background(), RunOptions{Commands: []string{"clean", "build", "test"}})
	if !errors.Is(err, pipeline.ErrCompilationFailed) {
		t.Fatalf("expected ErrCompilationFailed, got %v", err)
	}
	if !strings.Contains(ta.stderr.String(), "error: boom") {
		t.Errorf("compiler output should be shown:\n%s", ta.stderr)
	}
	if _, err := os.Stat(filepath.Join("build", "test_obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("test object dir should not exist, stat err = %v", err)
	}
}

func TestAppRun_ConfigError(t *testing.T) {
	ta := newTestApp(nil)
	ta.app.Config = staticConfig{err: errors.New("bad file")}

	err := ta.app.Run(context.Background(), RunOptions{Commands: []string{"build"}})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if !strings.Contains(ta.stderr.String(), "bad file") {
		t.Errorf("stderr missing config error:\n%s", ta.stderr)
	}
}

func TestAppRun_UnknownCompilerCheckedBeforeConfig(t *testing.T) {
	projectTree(t)
	ta := newTestApp(nil, "gcc", "ar")
	ta.app.Config = staticConfig{err: errors.New("bad file")}

	err := ta.app.Run(context.Background(), RunOptions{Compiler: "tcc", Commands: []string{"build"}})
	if !errors.Is(err, toolchain.ErrUnknownToolchain) {
		t.Fatalf("expected ErrUnknownToolchain, got %v", err)
	}
	if strings.Contains(ta.stderr.String(), "bad file") {
		t.Errorf("config should not be loaded for an invalid --compiler:\n%s", ta.stderr)
	}
}

func TestAppRun_VerboseEchoesCommands(t *testing.T) {
	projectTree(t)
	ta := newTestApp(nil, "gcc", "ar")

	if err := ta.app.Run(context.Background(), RunOptions{Verbose: true, Commands: []string{"build-debug"}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(ta.stderr.String(), "in DEBUG mode") {
		t.Errorf("expected debug banner:\n%s", ta.stderr)
	}
	if !strings.Contains(ta.stderr.String(), "run finished") {
		t.Errorf("expected debug summary in verbose mode:\n%s", ta.stderr)
	}
}
