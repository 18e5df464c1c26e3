// SPDX-License-Identifier: MPL-2.0

package processor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nchess/cbuild/internal/detect"
	"github.com/nchess/cbuild/pkg/toolchain"
)

type (
	// Resolver selects the toolchain for a run.
	Resolver interface {
		Resolve(ctx context.Context, id toolchain.ID) (detect.Selection, error)
	}

	// Executor performs the commands. The profile is passed on every call.
	Executor interface {
		Clean(ctx context.Context) error
		Build(ctx context.Context, mode toolchain.Mode, profile toolchain.Profile) error
		Test(ctx context.Context, mode toolchain.Mode, profile toolchain.Profile) error
	}

	// Request is one invocation of the processor.
	Request struct {
		// Toolchain is the requested toolchain; empty means auto-detect.
		Toolchain toolchain.ID
		// Commands are the raw command tokens in execution order.
		Commands []string
	}

	// Report summarizes a finished run.
	Report struct {
		State     State
		Selection detect.Selection
		// Executed lists the commands that completed successfully, in order.
		Executed []Command
		// Failed is the command that failed, or zero if none did.
		Failed Command
	}

	// Processor is the command state machine. A Processor is single-use:
	// Run may be called once.
	Processor struct {
		resolver Resolver
		executor Executor
		logger   *log.Logger

		mu    sync.Mutex
		state State
	}

	// Option configures a Processor.
	Option func(*Processor)

	// CommandError wraps the failure of one command.
	CommandError struct {
		Command Command
		Err     error
	}
)

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to execute: %s: %v", e.Command, e.Err)
}

// Unwrap returns the command's underlying error.
func (e *CommandError) Unwrap() error { return e.Err }

// WithLogger sets the progress logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// New creates a Processor in StateIdle.
func New(resolver Resolver, executor Executor, opts ...Option) *Processor {
	p := &Processor{
		resolver: resolver,
		executor: executor,
		logger:   log.New(io.Discard),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state.
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Processor) transition(to State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Debug("state", "from", p.state, "to", to)
	p.state = to
}

// Run validates the command tokens, resolves the toolchain, and executes the
// commands in order. It stops at the first failure.
func (p *Processor) Run(ctx context.Context, req Request) (Report, error) {
	if st := p.State(); st != StateIdle {
		return Report{State: st}, fmt.Errorf("processor already used (state %s)", st)
	}

	cmds, err := ParseCommands(req.Commands)
	if err != nil {
		p.transition(StateFailed)
		return Report{State: StateFailed}, err
	}

	sel, err := p.resolver.Resolve(ctx, req.Toolchain)
	if err != nil {
		p.transition(StateFailed)
		return Report{State: StateFailed}, err
	}
	p.transition(StateToolchainResolved)

	report := Report{Selection: sel}
	p.transition(StateRunning)
	for _, cmd := range cmds {
		if err := p.dispatch(ctx, cmd, sel.Profile); err != nil {
			p.logger.Error("Failed to execute: " + cmd.String())
			p.transition(StateFailed)
			report.State = StateFailed
			report.Failed = cmd
			return report, &CommandError{Command: cmd, Err: err}
		}
		report.Executed = append(report.Executed, cmd)
	}

	p.transition(StateCompleted)
	report.State = StateCompleted
	return report, nil
}

func (p *Processor) dispatch(ctx context.Context, cmd Command, profile toolchain.Profile) error {
	switch cmd {
	case CommandClean:
		return p.executor.Clean(ctx)
	case CommandBuild, CommandBuildDebug:
		return p.executor.Build(ctx, cmd.Mode(), profile)
	case CommandTest, CommandTestDebug:
		return p.executor.Test(ctx, cmd.Mode(), profile)
	default:
		return &UnknownCommandError{Token: cmd.String()}
	}
}
