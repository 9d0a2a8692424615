// Package vos provides the seams between the execution engine and the
// operating system: environment table, filesystem, working directory,
// standard streams and process creation. Each seam has a real-OS
// implementation and an in-memory one for embedding and tests.
package vos

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// VEnv is the environment-variable table a runner mutates. Two
// implementations exist: MapEnv keeps variables in memory for embedding and
// tests, OSEnv uses the real process environment so changes are visible to
// spawned programs.
type VEnv interface {
	// Setenv sets the value of the variable named by key, overwriting any
	// prior value.
	Setenv(key, value string) error

	// LookupEnv retrieves the value of the variable named by key. The
	// boolean reports whether the variable is present; an unset variable
	// yields ("", false).
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the variable named by key, returning
	// the empty string when it is unset.
	Getenv(key string) string

	// Unsetenv removes a single variable.
	Unsetenv(key string) error

	// Environ returns a copy of the environment as "key=value" strings.
	Environ() []string
}

// NewMapEnv creates an empty in-memory environment.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFrom creates an in-memory environment holding a copy of src's
// variables.
func NewMapEnvFrom(src VEnv) *MapEnv {
	return NewMapEnvFromList(src.Environ())
}

// NewMapEnvFromList creates an in-memory environment from "key=value"
// entries. An entry without "=" becomes a variable with an empty value.
func NewMapEnvFromList(environ []string) *MapEnv {
	out := &MapEnv{}
	for _, e := range environ {
		key, value, _ := strings.Cut(e, "=")
		// Ignore the error, it is never set for MapEnv.
		_ = out.Setenv(key, value)
	}
	return out
}

// MapEnv implements an in-memory VEnv.
type MapEnv struct {
	mu  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.env[key]
	return val, ok
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Unsetenv implements VEnv.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
	return nil
}

// Environ implements VEnv.Environ. Entries are sorted so the output is
// stable.
func (m *MapEnv) Environ() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var env []string
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}

// OSEnv is a VEnv backed by the real process environment.
type OSEnv struct{}

var _ VEnv = (*OSEnv)(nil)

// NewOSEnv returns the process-backed environment.
func NewOSEnv() *OSEnv {
	return &OSEnv{}
}

func (*OSEnv) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (*OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (*OSEnv) Getenv(key string) string {
	return os.Getenv(key)
}

func (*OSEnv) Unsetenv(key string) error {
	return os.Unsetenv(key)
}

func (*OSEnv) Environ() []string {
	return os.Environ()
}
