package ndwrap

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/zeebo/blake3"
)

// Array is a native n-dimensional array of int64 or float64 elements.
// Only one and two dimensional arrays are supported.
//
// Storage is reference counted and shared between an array and the views
// created from it with Slice and T. Release drops a reference; storage
// goes back to its pool when the last array referring to it is released.
//
// Example:
//
//	a := ndwrap.FromFloat64s([]float64{1, 2, 3})
//	defer a.Release()
//	if err := ndwrap.MultiplyInPlace(a, 2); err != nil {
//		return err
//	}
type Array struct {
	buf     *buffer
	shape   []int
	strides []int // in elements
	offset  int
	refs    int32
}

func newArray(pool *MemoryPool, dtype DType, shape ...int) (*Array, error) {
	if len(shape) == 0 || len(shape) > 2 {
		return nil, invalidArg(ErrShapeMismatch, "New", "unsupported rank %d", len(shape))
	}
	size := 1
	for _, d := range shape {
		if d < 0 {
			return nil, ErrInvalidSize
		}
		size *= d
	}
	buf, err := pool.allocate(dtype, size)
	if err != nil {
		return nil, err
	}
	a := &Array{
		buf:   buf,
		shape: append([]int(nil), shape...),
		refs:  1,
	}
	a.strides = rowMajorStrides(a.shape)
	return a, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// New allocates a zero-filled array from the default pool.
func New(dtype DType, shape ...int) (*Array, error) {
	return newArray(defaultPool, dtype, shape...)
}

// FromInt64s returns a one dimensional Int64 array holding a copy of v.
func FromInt64s(v []int64) *Array {
	a, _ := New(Int64, len(v))
	copy(a.buf.i64, v)
	return a
}

// FromFloat64s returns a one dimensional Float64 array holding a copy of v.
func FromFloat64s(v []float64) *Array {
	a, _ := New(Float64, len(v))
	copy(a.buf.f64, v)
	return a
}

// FromRows returns a two dimensional Float64 array holding a copy of rows.
// Ragged rows are rejected.
func FromRows(rows [][]float64) (*Array, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, invalidArg(ErrShapeMismatch, "FromRows",
				"row %d has %d columns, want %d", i, len(r), cols)
		}
	}
	a, err := New(Float64, len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		copy(a.buf.f64[i*cols:], r)
	}
	return a, nil
}

// Zeros returns a zero-filled one dimensional array of n elements.
func Zeros(dtype DType, n int) (*Array, error) {
	return New(dtype, n)
}

// Arange returns the one dimensional array [0, 1, ..., n-1].
func Arange(dtype DType, n int) (*Array, error) {
	a, err := New(dtype, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if dtype == Int64 {
			a.buf.i64[i] = int64(i)
		} else {
			a.buf.f64[i] = float64(i)
		}
	}
	return a, nil
}

// Eye returns the n×n Float64 identity matrix.
func Eye(n int) (*Array, error) {
	a, err := New(Float64, n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		a.buf.f64[i*n+i] = 1
	}
	return a, nil
}

// DType returns the element type.
func (a *Array) DType() DType { return a.buf.dtype }

// Shape returns a copy of the dimensions.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Len returns the length of the first dimension.
func (a *Array) Len() int { return a.shape[0] }

// Size returns the total number of elements.
func (a *Array) Size() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// Contiguous reports whether the elements are laid out row-major without
// gaps, so the storage can be handed to kernels directly.
func (a *Array) Contiguous() bool {
	want := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		if a.shape[i] != 1 && a.strides[i] != want {
			return false
		}
		want *= a.shape[i]
	}
	return true
}

// Released reports whether the last reference to a has been dropped.
func (a *Array) Released() bool {
	return atomic.LoadInt32(&a.refs) <= 0
}

// Retain adds a reference to a and returns it. Each Retain must be
// matched by a Release. Retaining a released array panics, since its
// storage may already belong to another array.
func (a *Array) Retain() *Array {
	for {
		refs := atomic.LoadInt32(&a.refs)
		if refs <= 0 {
			panic("ndwrap: Retain of released array")
		}
		if atomic.CompareAndSwapInt32(&a.refs, refs, refs+1) {
			return a
		}
	}
}

// Release drops a reference. The last release returns the storage to its
// pool once no view refers to it either.
func (a *Array) Release() error {
	refs := atomic.AddInt32(&a.refs, -1)
	switch {
	case refs == 0:
		return a.buf.release()
	case refs < 0:
		atomic.AddInt32(&a.refs, 1)
		return ErrDoubleFree
	}
	return nil
}

func (a *Array) check(op string) error {
	if a == nil {
		return invalidArg(ErrReleased, op, "nil array")
	}
	if a.Released() {
		return &Error{Type: ErrTypeMemory, Op: op, Message: "use after release", Err: ErrReleased}
	}
	return nil
}

// StoragePtr returns the address of the underlying storage. It is stable
// for the life of the array and shared with its views.
func (a *Array) StoragePtr() uintptr {
	if a.buf.dtype == Int64 {
		return uintptr(unsafe.Pointer(unsafe.SliceData(a.buf.i64[:cap(a.buf.i64)])))
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(a.buf.f64[:cap(a.buf.f64)])))
}

// each calls fn with the logical index and storage offset of every
// element in row-major order.
func (a *Array) each(fn func(k, off int)) {
	switch len(a.shape) {
	case 1:
		off := a.offset
		for i := 0; i < a.shape[0]; i++ {
			fn(i, off)
			off += a.strides[0]
		}
	case 2:
		k := 0
		for i := 0; i < a.shape[0]; i++ {
			off := a.offset + i*a.strides[0]
			for j := 0; j < a.shape[1]; j++ {
				fn(k, off)
				off += a.strides[1]
				k++
			}
		}
	}
}

// Float64s returns a row-major copy of the elements converted to float64.
func (a *Array) Float64s() []float64 {
	out := make([]float64, a.Size())
	if a.buf.dtype == Float64 {
		a.each(func(k, off int) { out[k] = a.buf.f64[off] })
	} else {
		a.each(func(k, off int) { out[k] = float64(a.buf.i64[off]) })
	}
	return out
}

// Int64s returns a row-major copy of the elements converted to int64.
// Float elements are truncated toward zero.
func (a *Array) Int64s() []int64 {
	out := make([]int64, a.Size())
	if a.buf.dtype == Int64 {
		a.each(func(k, off int) { out[k] = a.buf.i64[off] })
	} else {
		a.each(func(k, off int) { out[k] = int64(a.buf.f64[off]) })
	}
	return out
}

// Rows returns a copy of a two dimensional array as nested slices.
func (a *Array) Rows() ([][]float64, error) {
	if len(a.shape) != 2 {
		return nil, invalidArg(ErrNotMatrix, "Rows", "array has %d dimensions", len(a.shape))
	}
	flat := a.Float64s()
	rows := make([][]float64, a.shape[0])
	for i := range rows {
		rows[i] = flat[i*a.shape[1] : (i+1)*a.shape[1] : (i+1)*a.shape[1]]
	}
	return rows, nil
}

// At returns the element at the given index converted to float64.
func (a *Array) At(idx ...int) float64 {
	off := a.offsetOf(idx)
	if a.buf.dtype == Int64 {
		return float64(a.buf.i64[off])
	}
	return a.buf.f64[off]
}

func (a *Array) offsetOf(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndwrap: index rank %d for array of rank %d", len(idx), len(a.shape)))
	}
	off := a.offset
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			panic(fmt.Sprintf("ndwrap: index %d out of range [0, %d)", i, a.shape[d]))
		}
		off += i * a.strides[d]
	}
	return off
}

// view returns a new array header sharing a's storage.
func (a *Array) view(shape, strides []int, offset int) *Array {
	a.buf.retain()
	return &Array{
		buf:     a.buf,
		shape:   shape,
		strides: strides,
		offset:  offset,
		refs:    1,
	}
}

// Slice returns a one dimensional view of elements start, start+step, ...
// below stop. The view shares storage with a and must be released.
func (a *Array) Slice(start, stop, step int) (*Array, error) {
	if err := a.check("Slice"); err != nil {
		return nil, err
	}
	if len(a.shape) != 1 {
		return nil, invalidArg(ErrNotVector, "Slice", "array has %d dimensions", len(a.shape))
	}
	if step <= 0 || start < 0 || stop > a.shape[0] || start > stop {
		return nil, invalidArg(ErrShapeMismatch, "Slice",
			"invalid range [%d:%d:%d] for length %d", start, stop, step, a.shape[0])
	}
	n := (stop - start + step - 1) / step
	return a.view([]int{n}, []int{a.strides[0] * step}, a.offset+start*a.strides[0]), nil
}

// T returns the transpose of a two dimensional array as a view.
func (a *Array) T() (*Array, error) {
	if err := a.check("T"); err != nil {
		return nil, err
	}
	if len(a.shape) != 2 {
		return nil, invalidArg(ErrNotMatrix, "T", "array has %d dimensions", len(a.shape))
	}
	return a.view(
		[]int{a.shape[1], a.shape[0]},
		[]int{a.strides[1], a.strides[0]},
		a.offset,
	), nil
}

// Copy returns a contiguous copy of a with the given element type.
func (a *Array) Copy(dtype DType) (*Array, error) {
	if err := a.check("Copy"); err != nil {
		return nil, err
	}
	out, err := New(dtype, a.shape...)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Int64:
		copy(out.buf.i64, a.Int64s())
	case Float64:
		copy(out.buf.f64, a.Float64s())
	}
	return out, nil
}

// contiguousFloat64s returns the elements as a row-major float64 slice.
// The slice aliases storage when a is a contiguous Float64 array and is a
// copy otherwise.
func (a *Array) contiguousFloat64s() []float64 {
	if a.buf.dtype == Float64 && a.Contiguous() {
		return a.buf.f64[a.offset : a.offset+a.Size()]
	}
	return a.Float64s()
}

// contiguousInt64s is the Int64 counterpart of contiguousFloat64s.
func (a *Array) contiguousInt64s() []int64 {
	if a.buf.dtype == Int64 && a.Contiguous() {
		return a.buf.i64[a.offset : a.offset+a.Size()]
	}
	return a.Int64s()
}

// Fingerprint returns a BLAKE3 digest of the dtype, shape and logical
// element values. Views with equal contents have equal fingerprints.
func (a *Array) Fingerprint() [32]byte {
	h := blake3.New()
	var word [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(word[:], v)
		h.Write(word[:])
	}
	put(uint64(a.buf.dtype))
	for _, d := range a.shape {
		put(uint64(d))
	}
	if a.buf.dtype == Int64 {
		a.each(func(_, off int) { put(uint64(a.buf.i64[off])) })
	} else {
		a.each(func(_, off int) { put(math.Float64bits(a.buf.f64[off])) })
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func (a *Array) String() string {
	return fmt.Sprintf("array(%v, dtype=%v)", a.shape, a.buf.dtype)
}
