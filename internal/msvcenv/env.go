// SPDX-License-Identifier: MPL-2.0

package msvcenv

import (
	"maps"
	"os"
)

type (
	// Environment is the process environment as seen by the bootstrapper.
	Environment interface {
		LookupEnv(key string) (string, bool)
		Setenv(key, value string) error
		Unsetenv(key string) error
	}

	// OSEnvironment reads and writes the real process environment.
	OSEnvironment struct{}

	// MapEnvironment is an in-memory Environment. A key present in Fail makes
	// Setenv for that key return the mapped error.
	MapEnvironment struct {
		Vars map[string]string
		Fail map[string]error
	}
)

// LookupEnv implements Environment.
func (OSEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// Setenv implements Environment.
func (OSEnvironment) Setenv(key, value string) error { return os.Setenv(key, value) }

// Unsetenv implements Environment.
func (OSEnvironment) Unsetenv(key string) error { return os.Unsetenv(key) }

// NewMapEnvironment creates a MapEnvironment seeded with a copy of vars.
func NewMapEnvironment(vars map[string]string) *MapEnvironment {
	m := &MapEnvironment{Vars: make(map[string]string, len(vars))}
	maps.Copy(m.Vars, vars)
	return m
}

// LookupEnv implements Environment.
func (m *MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m.Vars[key]
	return v, ok
}

// Setenv implements Environment.
func (m *MapEnvironment) Setenv(key, value string) error {
	if err, ok := m.Fail[key]; ok {
		return err
	}
	if m.Vars == nil {
		m.Vars = make(map[string]string)
	}
	m.Vars[key] = value
	return nil
}

// Unsetenv implements Environment.
func (m *MapEnvironment) Unsetenv(key string) error {
	delete(m.Vars, key)
	return nil
}

// Getenv returns the value of key or "" if unset.
func Getenv(env Environment, key string) string {
	v, _ := env.LookupEnv(key)
	return v
}
