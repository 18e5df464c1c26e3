// SPDX-License-Identifier: MPL-2.0

package msvcenv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedLine is returned when a line of `set` output is not KEY=VALUE.
	ErrMalformedLine = errors.New("malformed environment line")

	// ErrMarkerNotFound is returned when the marker line is absent from the output,
	// which means vcvarsall.bat failed before `set` ran.
	ErrMarkerNotFound = errors.New("environment marker not found")
)

type (
	// Var is one environment variable assignment.
	Var struct {
		Key   string
		Value string
	}

	// Overlay is an ordered set of assignments scraped from a configured shell.
	Overlay []Var

	// MalformedLineError reports the first line that failed to parse.
	MalformedLineError struct {
		Line int
		Text string
	}

	// ApplyError is returned when Overlay.Apply fails. Every variable applied
	// before the failure has been restored.
	ApplyError struct {
		Key string
		Err error
		// RollbackErr is set if restoring the previous values also failed.
		RollbackErr error
	}

	// previous remembers a variable's value before Apply touched it.
	previous struct {
		key     string
		value   string
		present bool
	}
)

// Error implements the error interface.
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %q is not KEY=VALUE", e.Line, e.Text)
}

// Unwrap returns ErrMalformedLine for errors.Is() compatibility.
func (e *MalformedLineError) Unwrap() error { return ErrMalformedLine }

// Error implements the error interface.
func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("setting %s: %v", e.Key, e.Err)
	if e.RollbackErr != nil {
		msg += fmt.Sprintf(" (rollback failed: %v)", e.RollbackErr)
	}
	return msg
}

// Unwrap returns the Setenv failure.
func (e *ApplyError) Unwrap() error { return e.Err }

// ParseSetOutput parses the output of cmd.exe's `set` builtin.
//
// When marker is non-empty only the lines after the first line equal to
// marker are considered; anything vcvarsall printed before it is ignored.
// Empty lines are skipped. Every other line must contain '=' with a
// non-empty key; the value is everything after the first '='.
func ParseSetOutput(out []byte, marker string) (Overlay, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var overlay Overlay
	seenMarker := marker == ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")

		if !seenMarker {
			if strings.TrimSpace(line) == marker {
				seenMarker = true
			}
			continue
		}
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			return nil, &MalformedLineError{Line: lineNo, Text: line}
		}
		overlay = append(overlay, Var{Key: key, Value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenMarker {
		return nil, ErrMarkerNotFound
	}
	return overlay, nil
}

// Lookup returns the last value assigned to key in the overlay.
func (o Overlay) Lookup(key string) (string, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if strings.EqualFold(o[i].Key, key) {
			return o[i].Value, true
		}
	}
	return "", false
}

// Keys returns the assigned keys in order.
func (o Overlay) Keys() []string {
	keys := make([]string, len(o))
	for i, v := range o {
		keys[i] = v.Key
	}
	return keys
}

// Apply sets every variable in env. If any Setenv fails, the variables
// already set are restored to their previous values (or unset) in reverse
// order and an *ApplyError is returned.
func (o Overlay) Apply(env Environment) error {
	applied := make([]previous, 0, len(o))
	for _, v := range o {
		old, present := env.LookupEnv(v.Key)
		if err := env.Setenv(v.Key, v.Value); err != nil {
			return &ApplyError{Key: v.Key, Err: err, RollbackErr: rollback(env, applied)}
		}
		applied = append(applied, previous{key: v.Key, value: old, present: present})
	}
	return nil
}

func rollback(env Environment, applied []previous) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		p := applied[i]
		var err error
		if p.present {
			err = env.Setenv(p.key, p.value)
		} else {
			err = env.Unsetenv(p.key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", p.key, err))
		}
	}
	return errors.Join(errs...)
}
