// SPDX-License-Identifier: MPL-2.0

package processor

import (
	"errors"
	"fmt"
)

const (
	// StateIdle is the initial state: nothing has been resolved or run.
	StateIdle State = iota
	// StateToolchainResolved means exactly one profile has been selected.
	StateToolchainResolved
	// StateRunning means commands are being dispatched.
	StateRunning
	// StateFailed is terminal: parsing, resolution or a command failed.
	StateFailed
	// StateCompleted is terminal: every command succeeded.
	StateCompleted
)

// ErrInvalidState is returned when a State value is not one of the defined states.
var ErrInvalidState = errors.New("invalid state")

type (
	// State is the processor's position in a run.
	State int32

	// InvalidStateError is returned when a State value is not recognized.
	// It wraps ErrInvalidState for errors.Is() compatibility.
	InvalidStateError struct {
		Value State
	}
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateToolchainResolved:
		return "toolchain-resolved"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Error implements the error interface for InvalidStateError.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %d (valid: 0=idle, 1=toolchain-resolved, 2=running, 3=failed, 4=completed)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// Validate returns nil if the State is one of the defined states.
func (s State) Validate() error {
	switch s {
	case StateIdle, StateToolchainResolved, StateRunning, StateFailed, StateCompleted:
		return nil
	default:
		return &InvalidStateError{Value: s}
	}
}

// IsTerminal returns true for Failed and Completed.
func (s State) IsTerminal() bool {
	return s == StateFailed || s == StateCompleted
}
