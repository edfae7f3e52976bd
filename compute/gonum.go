package compute

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"
	"gonum.org/v1/gonum/floats"
)

func init() {
	Register(Gonum{})
}

// Gonum is the pure Go kernel set built on gonum.
type Gonum struct{}

func (Gonum) Name() string { return "gonum" }

// SumInt64 uses four independent accumulators; integer addition wraps, so
// the result does not depend on the order.
func (Gonum) SumInt64(x []int64) int64 {
	var s0, s1, s2, s3 int64
	i := 0
	for ; i+3 < len(x); i += 4 {
		s0 += x[i]
		s1 += x[i+1]
		s2 += x[i+2]
		s3 += x[i+3]
	}
	for ; i < len(x); i++ {
		s0 += x[i]
	}
	return s0 + s1 + s2 + s3
}

func (Gonum) SumFloat64(x []float64) float64 {
	return floats.Sum(x)
}

func (Gonum) ScaleTo(dst []float64, alpha float64, src []float64) {
	if len(dst) == 0 {
		return
	}
	floats.ScaleTo(dst, alpha, src)
}

func (Gonum) Scale(alpha float64, x []float64) {
	floats.Scale(alpha, x)
}

func (Gonum) Dgemm(m, n, k int, a []float64, lda int, b []float64, ldb int, c []float64, ldc int) {
	if m == 0 || n == 0 {
		return
	}
	if k == 0 {
		for i := 0; i < m; i++ {
			clear(c[i*ldc : i*ldc+n])
		}
		return
	}
	gonum.Implementation{}.Dgemm(blas.NoTrans, blas.NoTrans, m, n, k,
		1, a, lda,
		b, ldb,
		0, c, ldc)
}
