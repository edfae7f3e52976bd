package binding

import (
	"fmt"

	"github.com/LynnColeArt/ndwrap"
)

// toNative converts a host value to the form a Func receives. When the
// conversion allocates an array it is also returned as temp so the caller
// can release it.
func toNative(arg interface{}) (v interface{}, temp *ndwrap.Array, err error) {
	switch x := arg.(type) {
	case *ndwrap.Array:
		if x == nil || x.Released() {
			return nil, nil, fmt.Errorf("%w: released or nil array", ErrBadArgument)
		}
		return x, nil, nil
	case []int64:
		a := ndwrap.FromInt64s(x)
		return a, a, nil
	case []int:
		v := make([]int64, len(x))
		for i, e := range x {
			v[i] = int64(e)
		}
		a := ndwrap.FromInt64s(v)
		return a, a, nil
	case []float64:
		a := ndwrap.FromFloat64s(x)
		return a, a, nil
	case [][]float64:
		a, err := ndwrap.FromRows(x)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		return a, a, nil
	case int:
		return int64(x), nil, nil
	case int32:
		return int64(x), nil, nil
	case int64:
		return x, nil, nil
	case float32:
		return float64(x), nil, nil
	case float64:
		return x, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unsupported type %T", ErrBadArgument, arg)
}

// writeBack copies the elements of temp, the temporary made for the host
// slice arg, back into arg. Slices share their backing array with the
// caller, so in-place changes become visible to it.
func writeBack(arg interface{}, temp *ndwrap.Array) error {
	if temp.Released() {
		return fmt.Errorf("%w: temporary released by the function", ErrBadArgument)
	}
	switch x := arg.(type) {
	case []int64:
		copy(x, temp.Int64s())
	case []int:
		for i, v := range temp.Int64s() {
			x[i] = int(v)
		}
	case []float64:
		copy(x, temp.Float64s())
	case [][]float64:
		rows, err := temp.Rows()
		if err != nil {
			return err
		}
		for i, r := range rows {
			copy(x[i], r)
		}
	}
	return nil
}

// toHost converts a Func result back to a host value. Arrays created by
// the function are released once copied out; arrays among the call's
// native arguments are left to their owners.
func toHost(out interface{}, args []interface{}) (interface{}, error) {
	switch x := out.(type) {
	case nil:
		return nil, nil
	case ndwrap.Scalar:
		return x.Value(), nil
	case int64, float64:
		return x, nil
	case *ndwrap.Array:
		v, err := arrayToHost(x)
		if owned(x, args) {
			return v, err
		}
		if rerr := x.Release(); rerr != nil && err == nil {
			err = rerr
		}
		return v, err
	}
	return nil, fmt.Errorf("binding: cannot convert result of type %T", out)
}

func owned(a *ndwrap.Array, args []interface{}) bool {
	for _, arg := range args {
		if b, ok := arg.(*ndwrap.Array); ok && a == b {
			return true
		}
	}
	return false
}

func arrayToHost(a *ndwrap.Array) (interface{}, error) {
	if a.NDim() == 2 {
		return a.Rows()
	}
	if a.DType() == ndwrap.Int64 {
		return a.Int64s(), nil
	}
	return a.Float64s(), nil
}

// ArrayArg returns argument i as an array.
func ArrayArg(args []interface{}, i int) (*ndwrap.Array, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i)
	}
	a, ok := args[i].(*ndwrap.Array)
	if !ok {
		return nil, fmt.Errorf("%w: argument %d is %T, want array", ErrBadArgument, i, args[i])
	}
	return a, nil
}

// FloatArg returns argument i as a float64, accepting integers.
func FloatArg(args []interface{}, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i)
	}
	switch x := args[i].(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: argument %d is %T, want float", ErrBadArgument, i, args[i])
}
