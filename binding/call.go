package binding

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/LynnColeArt/ndwrap"
)

// hostLock serialises host-side work across all binding calls. It is
// held per call chain: a function running under the lock receives a
// context marked with heldLock, and Calls made with that context run
// under the same hold instead of locking again.
var hostLock sync.Mutex

type heldLockKey struct{}

func withHeldLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, heldLockKey{}, true)
}

func holdsLock(ctx context.Context) bool {
	held, _ := ctx.Value(heldLockKey{}).(bool)
	return held
}

// WithHostLock runs fn while holding the host lock.
func WithHostLock(fn func()) {
	hostLock.Lock()
	defer hostLock.Unlock()
	fn()
}

// Function is an imported, callable export.
type Function struct {
	module string
	export *export
}

// Name returns the qualified name, e.g. "example_project.numpy_array_sum".
func (f *Function) Name() string {
	return f.module + "." + f.export.name
}

// ReleasesLock reports whether the function computes without the host lock.
func (f *Function) ReleasesLock() bool {
	return f.export.releasesLock
}

// Call converts args, invokes the function and converts its result.
//
// Arrays passed as *ndwrap.Array are handed over by reference, so the
// function may modify them in place. Slices are copied into temporary
// arrays; after a successful call the temporaries are copied back into
// the caller's slices and released. An array result is converted to a
// slice ([]int64, []float64 or [][]float64) and released unless it is one
// of the caller's own arrays; a Scalar result becomes an int64 or float64.
//
// A function may call other functions with the context it was given.
// Such nested calls run under the caller's hold of the host lock.
func (f *Function) Call(ctx context.Context, args ...interface{}) (result interface{}, err error) {
	nested := holdsLock(ctx)
	locked := false
	if !nested {
		hostLock.Lock()
		locked = true
	}
	defer func() {
		if locked {
			hostLock.Unlock()
		}
	}()

	native := make([]interface{}, len(args))
	var temps []*ndwrap.Array
	defer func() {
		for _, t := range temps {
			if rerr := t.Release(); rerr != nil && err == nil {
				err = rerr
			}
		}
	}()
	for i, arg := range args {
		v, temp, cerr := toNative(arg)
		if cerr != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", f.Name(), i, cerr)
		}
		native[i] = v
		if temp != nil {
			temps = append(temps, temp)
		}
	}

	callCtx := ctx
	switch {
	case nested:
	case f.export.releasesLock:
		hostLock.Unlock()
		locked = false
	default:
		callCtx = withHeldLock(ctx)
	}
	out, err := f.invoke(callCtx, native)
	if !locked && !nested {
		hostLock.Lock()
		locked = true
	}
	if err != nil {
		return nil, err
	}
	for i, arg := range args {
		if a, ok := native[i].(*ndwrap.Array); ok && a != arg {
			if err := writeBack(arg, a); err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", f.Name(), i, err)
			}
		}
	}
	return toHost(out, native)
}

// invoke runs the function, turning a panic in native code into an error.
func (f *Function) invoke(ctx context.Context, args []interface{}) (out interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("binding: %s panicked: %v", f.Name(), r)
			err = fmt.Errorf("binding: %s panicked: %v", f.Name(), r)
		}
	}()
	return f.export.fn(ctx, args...)
}
