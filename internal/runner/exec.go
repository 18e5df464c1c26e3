// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// execCommandContext is swapped in tests.
var execCommandContext = exec.CommandContext

type (
	// ExecRunner runs invocations as local processes via os/exec.
	ExecRunner struct {
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger
	}

	// Option configures an ExecRunner.
	Option func(*ExecRunner)
)

// WithStreams sets the streams used by Attach.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger used to echo invocations at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(r *ExecRunner) {
		r.logger = logger
	}
}

// NewExec creates an ExecRunner attached to the process's own streams.
func NewExec(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capture runs inv and returns combined stdout/stderr in Result.Output.
func (r *ExecRunner) Capture(ctx context.Context, inv Invocation) *Result {
	var buf bytes.Buffer
	cmd := r.command(ctx, inv)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	result := extractExitCode(cmd.Run())
	result.Output = buf.Bytes()
	return result
}

// Attach runs inv connected to the runner's streams.
func (r *ExecRunner) Attach(ctx context.Context, inv Invocation) *Result {
	cmd := r.command(ctx, inv)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	return extractExitCode(cmd.Run())
}

func (r *ExecRunner) command(ctx context.Context, inv Invocation) *exec.Cmd {
	r.logger.Debug("exec", "cmd", inv.String())

	cmd := execCommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	if inv.Env != nil {
		cmd.Env = inv.Env
	}
	applyRawCmdLine(cmd, inv.RawCmdLine)
	return cmd
}

// extractExitCode converts the error from cmd.Run into a Result.
func extractExitCode(err error) *Result {
	if err == nil {
		return NewSuccessResult()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// killed by a signal
			return NewExitCodeResult(1)
		}
		return NewExitCodeResult(NormalizeExitCode(code))
	}

	// command not found, permission denied, context cancelled before start
	return NewErrorResult(1, err)
}
