// Package binding exposes native functions to host code by name.
//
// A project builds a Module, exports functions into it and registers it.
// Host code imports the names it needs with Import and calls them with
// plain Go values; Call converts those values to native arrays, runs the
// function and converts the result back.
//
// Every call holds the host lock, a process-wide mutex that serialises
// host-side work the way an interpreter lock does. Functions exported with
// ReleasesLock drop it while they compute, so other host work can run in
// the meantime. A function calling other functions passes on the context
// it received, and those calls share its hold of the lock.
package binding

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Func is the signature of an exported native function. Arguments arrive
// already converted: arrays as *ndwrap.Array, integers as int64 and
// floats as float64.
type Func func(ctx context.Context, args ...interface{}) (interface{}, error)

type export struct {
	name         string
	fn           Func
	releasesLock bool
}

// ExportOption configures an exported function.
type ExportOption func(*export)

// ReleasesLock marks a function that runs without the host lock once its
// arguments have been converted.
func ReleasesLock() ExportOption {
	return func(e *export) { e.releasesLock = true }
}

// Module is a named set of exported functions.
type Module struct {
	name  string
	mu    sync.RWMutex
	funcs map[string]*export
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{
		name:  name,
		funcs: make(map[string]*export),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Export adds fn under name. Exporting the same name twice panics.
func (m *Module) Export(name string, fn Func, opts ...ExportOption) {
	if fn == nil {
		panic("binding: nil function " + name)
	}
	e := &export{name: name, fn: fn}
	for _, opt := range opts {
		opt(e)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.funcs[name]; dup {
		panic(fmt.Sprintf("binding: %s.%s exported twice", m.name, name))
	}
	m.funcs[name] = e
}

// Names lists the exported function names in sorted order.
func (m *Module) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.funcs))
	for name := range m.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Function returns the exported function name.
func (m *Module) Function(name string) (*Function, error) {
	m.mu.RLock()
	e, ok := m.funcs[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchFunction, m.name, name)
	}
	return &Function{module: m.name, export: e}, nil
}
