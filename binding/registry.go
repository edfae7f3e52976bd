package binding

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
)

var (
	// ErrNoSuchFunction is returned when a module does not export a name.
	ErrNoSuchFunction = errors.New("binding: no such function")

	// ErrBadArgument is returned when an argument cannot be converted.
	ErrBadArgument = errors.New("binding: bad argument")
)

// ImportError reports a module that is not registered or that lacks some
// of the requested names.
type ImportError struct {
	Module  string
	Missing []string // nil when the module itself is missing
}

func (e *ImportError) Error() string {
	if e.Missing == nil {
		return fmt.Sprintf("no module named '%s'", e.Module)
	}
	return fmt.Sprintf("cannot import name '%s' from '%s'",
		strings.Join(e.Missing, "', '"), e.Module)
}

var registry = struct {
	sync.RWMutex
	modules map[string]*Module
}{modules: make(map[string]*Module)}

// Register makes m importable by name. Registering two modules with the
// same name panics.
func Register(m *Module) {
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.modules[m.name]; dup {
		panic("binding: module registered twice: " + m.name)
	}
	registry.modules[m.name] = m
	glog.V(1).Infof("binding: registered module %s (%d functions)", m.name, len(m.Names()))
}

// Unregister removes a module; it exists for tests that register
// throwaway modules.
func Unregister(name string) {
	registry.Lock()
	defer registry.Unlock()
	delete(registry.modules, name)
}

// Lookup returns a registered module.
func Lookup(name string) (*Module, bool) {
	registry.RLock()
	defer registry.RUnlock()
	m, ok := registry.modules[name]
	return m, ok
}

// Modules lists the registered module names.
func Modules() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.modules))
	for name := range registry.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Import resolves names from module. Either every name resolves or the
// error is an *ImportError listing what is missing.
func Import(module string, names ...string) (map[string]*Function, error) {
	m, ok := Lookup(module)
	if !ok {
		err := &ImportError{Module: module}
		glog.Warningf("binding: %v", err)
		return nil, err
	}

	fns := make(map[string]*Function, len(names))
	var missing []string
	for _, name := range names {
		f, err := m.Function(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		fns[name] = f
	}
	if missing != nil {
		err := &ImportError{Module: module, Missing: missing}
		glog.Warningf("binding: %v", err)
		return nil, err
	}
	glog.V(1).Infof("binding: imported %d names from %s", len(names), module)
	return fns, nil
}
