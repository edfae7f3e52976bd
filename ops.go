package ndwrap

import (
	"context"

	"github.com/LynnColeArt/ndwrap/compute"
)

// Sum returns the sum of all elements of a one or two dimensional array.
// Integer arrays produce an Int64 scalar with wrapping overflow, float
// arrays a Float64 scalar. The sum of an empty array is zero.
//
// Example:
//
//	a := ndwrap.FromInt64s([]int64{1, 2, 3, 4, 5})
//	defer a.Release()
//	s, _ := ndwrap.Sum(a) // s.Int64() == 15
func Sum(a *Array) (Scalar, error) {
	if err := a.check("Sum"); err != nil {
		return Scalar{}, err
	}
	return reduce(context.Background(), a, 1)
}

// MultiplyScalar returns a new Float64 array with every element of a
// multiplied by factor. Integer arrays are promoted to float64. The input
// is not modified.
func MultiplyScalar(a *Array, factor float64) (*Array, error) {
	if err := a.check("MultiplyScalar"); err != nil {
		return nil, err
	}
	out, err := New(Float64, a.shape...)
	if err != nil {
		return nil, err
	}
	compute.Current().ScaleTo(out.buf.f64, factor, a.contiguousFloat64s())
	return out, nil
}

// MultiplyInPlace multiplies every element of a by factor, writing the
// results into a's own storage. Only Float64 arrays can be scaled in
// place; strided views update the elements they cover.
func MultiplyInPlace(a *Array, factor float64) error {
	if err := a.check("MultiplyInPlace"); err != nil {
		return err
	}
	if a.DType() != Float64 {
		return invalidArg(ErrDTypeMismatch, "MultiplyInPlace",
			"cannot scale %v array in place by a float", a.DType())
	}
	if a.Contiguous() {
		compute.Current().Scale(factor, a.buf.f64[a.offset:a.offset+a.Size()])
		return nil
	}
	f := a.buf.f64
	a.each(func(_, off int) { f[off] *= factor })
	return nil
}

// MatrixMultiply returns the product of two matrices as a new
// rows(a)×cols(b) Float64 array. Integer operands are promoted and
// non-contiguous operands are copied before the product.
//
// Example:
//
//	a, _ := ndwrap.FromRows([][]float64{{1, 2}, {3, 4}})
//	b, _ := ndwrap.FromRows([][]float64{{5, 6}, {7, 8}})
//	c, _ := ndwrap.MatrixMultiply(a, b) // [[19 22] [43 50]]
func MatrixMultiply(a, b *Array) (*Array, error) {
	if err := a.check("MatrixMultiply"); err != nil {
		return nil, err
	}
	if err := b.check("MatrixMultiply"); err != nil {
		return nil, err
	}
	if a.NDim() != 2 || b.NDim() != 2 {
		return nil, invalidArg(ErrNotMatrix, "MatrixMultiply",
			"operands have %d and %d dimensions", a.NDim(), b.NDim())
	}
	m, k := a.shape[0], a.shape[1]
	if b.shape[0] != k {
		return nil, invalidArg(ErrShapeMismatch, "MatrixMultiply",
			"cannot multiply %dx%d by %dx%d", m, k, b.shape[0], b.shape[1])
	}
	n := b.shape[1]

	out, err := New(Float64, m, n)
	if err != nil {
		return nil, err
	}
	compute.Current().Dgemm(m, n, k,
		a.contiguousFloat64s(), max(1, k),
		b.contiguousFloat64s(), max(1, n),
		out.buf.f64, max(1, n))
	return out, nil
}
