// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Invocation describes one external process.
	Invocation struct {
		// Name is the program to run, resolved through PATH when it has no separator.
		Name string
		Args []string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env replaces the inherited environment when non-nil.
		Env []string
		// RawCmdLine, when set, is passed verbatim as the Windows command line
		// instead of being assembled from Args. cmd.exe needs this for its
		// own quoting rules. Ignored on other platforms.
		RawCmdLine string
	}

	// Runner executes invocations. Implementations must be safe for sequential
	// reuse; the pipeline never runs two invocations concurrently.
	Runner interface {
		// Capture runs inv to completion and returns its combined output.
		Capture(ctx context.Context, inv Invocation) *Result
		// Attach runs inv with the runner's standard streams connected.
		Attach(ctx context.Context, inv Invocation) *Result
	}
)

// NewInvocation builds an Invocation from a program and its arguments.
func NewInvocation(name string, args ...string) Invocation {
	return Invocation{Name: name, Args: append([]string(nil), args...)}
}

// Argv returns the program followed by its arguments.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Name}, inv.Args...)
}

// String renders the invocation as a shell-quoted command line for logs.
func (inv Invocation) String() string {
	if inv.RawCmdLine != "" {
		return inv.RawCmdLine
	}
	return QuoteArgs(inv.Argv())
}

// QuoteArgs joins args into a single line that a POSIX shell would split
// back into the same words. Arguments that cannot be quoted (e.g. those
// containing NUL) are rendered with %q-style escaping instead.
func QuoteArgs(args []string) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(a)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}
