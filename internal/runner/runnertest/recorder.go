// SPDX-License-Identifier: MPL-2.0

// Package runnertest provides a recording runner.Runner for tests.
package runnertest

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/nchess/cbuild/internal/runner"
)

type (
	// Mode tells whether a call went through Capture or Attach.
	Mode int

	// Call is one recorded invocation.
	Call struct {
		Mode       Mode
		Invocation runner.Invocation
	}

	// Responder decides the result of an invocation. Returning nil means success.
	Responder func(inv runner.Invocation) *runner.Result

	// Recorder is a runner.Runner that records every invocation and, unless a
	// Responder overrides it, succeeds. With TouchOutputs enabled it creates
	// the files a compiler, archiver or linker would write, so pipelines that
	// stat their artifacts behave as if real tools ran.
	Recorder struct {
		mu           sync.Mutex
		calls        []Call
		respond      Responder
		TouchOutputs bool
	}
)

const (
	// ModeCapture marks a Capture call.
	ModeCapture Mode = iota
	// ModeAttach marks an Attach call.
	ModeAttach
)

// New creates a Recorder that touches outputs.
func New() *Recorder {
	return &Recorder{TouchOutputs: true}
}

// RespondWith installs fn as the result source.
func (r *Recorder) RespondWith(fn Responder) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.respond = fn
	return r
}

// Capture implements runner.Runner.
func (r *Recorder) Capture(_ context.Context, inv runner.Invocation) *runner.Result {
	return r.record(ModeCapture, inv)
}

// Attach implements runner.Runner.
func (r *Recorder) Attach(_ context.Context, inv runner.Invocation) *runner.Result {
	return r.record(ModeAttach, inv)
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// CallsTo returns the recorded invocations whose program is name.
func (r *Recorder) CallsTo(name string) []runner.Invocation {
	var out []runner.Invocation
	for _, c := range r.Calls() {
		if c.Invocation.Name == name {
			out = append(out, c.Invocation)
		}
	}
	return out
}

func (r *Recorder) record(mode Mode, inv runner.Invocation) *runner.Result {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Mode: mode, Invocation: inv})
	respond := r.respond
	r.mu.Unlock()

	if respond != nil {
		if res := respond(inv); res != nil {
			return res
		}
	}
	if r.TouchOutputs {
		if out := OutputPath(inv); out != "" {
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return runner.NewErrorResult(1, err)
			}
			if err := os.WriteFile(out, nil, 0o644); err != nil {
				return runner.NewErrorResult(1, err)
			}
		}
	}
	return runner.NewSuccessResult()
}

// OutputPath extracts the file an invocation would produce: the argument after
// "-o", a "/Fo" or "/OUT:" argument, or the archive following "rcs".
func OutputPath(inv runner.Invocation) string {
	for i, a := range inv.Args {
		switch {
		case (a == "-o" || a == "rcs") && i+1 < len(inv.Args):
			return inv.Args[i+1]
		case len(a) > 3 && a[:3] == "/Fo":
			return a[3:]
		case len(a) > 5 && a[:5] == "/OUT:":
			return a[5:]
		}
	}
	return ""
}
